// Package paths resolves the on-disk workspace for a render job.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

// JobPaths locates every file a single render job touches. Jobs are isolated
// under their own directory so concurrent requests never collide.
type JobPaths struct {
	Root         string
	AssetsDir    string
	LogsDir      string
	SubtitleFile string
	OutputFile   string
}

// ForJob lays out the workspace for jobID under workDir.
func ForJob(workDir, jobID string) JobPaths {
	root := filepath.Join(workDir, "storyreel", jobID)
	return JobPaths{
		Root:         root,
		AssetsDir:    filepath.Join(root, "assets"),
		LogsDir:      filepath.Join(root, "logs"),
		SubtitleFile: filepath.Join(root, "subtitles.ass"),
		OutputFile:   filepath.Join(root, "output.mp4"),
	}
}

// Ensure creates the workspace directories.
func (p JobPaths) Ensure() error {
	for _, dir := range []string{p.Root, p.AssetsDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ensure dir %s: %w", dir, err)
		}
	}
	return nil
}

// ImageFile returns the local path for the i-th slideshow image.
func (p JobPaths) ImageFile(i int) string {
	return filepath.Join(p.AssetsDir, fmt.Sprintf("image_%d", i))
}

// AudioFile returns the local path for the narration track.
func (p JobPaths) AudioFile() string {
	return filepath.Join(p.AssetsDir, "audio")
}

// EndCardAudioFile returns the local path for the optional end-card clip.
func (p JobPaths) EndCardAudioFile() string {
	return filepath.Join(p.AssetsDir, "endcard_audio")
}

// Cleanup removes the whole job workspace.
func (p JobPaths) Cleanup() error {
	return os.RemoveAll(p.Root)
}
