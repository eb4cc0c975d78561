package library

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Options selects the extensions classified as video and subtitle files.
// Extensions include the leading dot and are matched case-insensitively.
type Options struct {
	VideoExtensions    []string
	SubtitleExtensions []string
}

// DefaultOptions matches .mp4/.mkv videos and .srt subtitles.
func DefaultOptions() Options {
	return Options{
		VideoExtensions:    []string{".mp4", ".mkv"},
		SubtitleExtensions: []string{".srt"},
	}
}

// Video is a discovered video file.
type Video struct {
	// Path is relative to the scanned root and slash-separated.
	Path string
	// AbsPath is the absolute filesystem path.
	AbsPath string
	// SubtitlePath is AbsPath with its extension replaced by ".srt".
	SubtitlePath string
	// HasSubtitle reports whether SubtitlePath exists. Language-suffixed
	// variants such as movie.eng.srt do not count.
	HasSubtitle bool
}

// Subtitle is a discovered subtitle file.
type Subtitle struct {
	Path    string
	AbsPath string
}

// Inventory is the result of one scan.
type Inventory struct {
	Root      string
	Videos    []Video
	Subtitles []Subtitle
}

// VideoPaths returns the absolute paths of every video in order.
func (inv Inventory) VideoPaths() []string {
	out := make([]string, 0, len(inv.Videos))
	for _, v := range inv.Videos {
		out = append(out, v.AbsPath)
	}
	return out
}

// SubtitlePaths returns the absolute paths of every subtitle in order.
func (inv Inventory) SubtitlePaths() []string {
	out := make([]string, 0, len(inv.Subtitles))
	for _, s := range inv.Subtitles {
		out = append(out, s.AbsPath)
	}
	return out
}

// Scan walks root recursively and classifies its files.
func Scan(root string, opts Options) (Inventory, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return Inventory{}, errors.New("scan: empty root")
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return Inventory{}, fmt.Errorf("scan: resolve root: %w", err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return Inventory{}, fmt.Errorf("scan: %w", err)
	}
	if !info.IsDir() {
		return Inventory{}, fmt.Errorf("scan: %s is not a directory", absRoot)
	}

	videoExt := extensionSet(opts.VideoExtensions, DefaultOptions().VideoExtensions)
	subtitleExt := extensionSet(opts.SubtitleExtensions, DefaultOptions().SubtitleExtensions)

	inv := Inventory{Root: absRoot}
	files := make(map[string]struct{})
	var videoAbs []string

	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == absRoot {
				return walkErr
			}
			// Unreadable subdirectories are skipped rather than failing the scan.
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		files[path] = struct{}{}
		ext := strings.ToLower(filepath.Ext(path))
		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		switch {
		case contains(videoExt, ext):
			videoAbs = append(videoAbs, path)
			inv.Videos = append(inv.Videos, Video{Path: rel, AbsPath: path})
		case contains(subtitleExt, ext):
			inv.Subtitles = append(inv.Subtitles, Subtitle{Path: rel, AbsPath: path})
		}
		return nil
	})
	if err != nil {
		return Inventory{}, fmt.Errorf("scan %s: %w", absRoot, err)
	}

	for i := range inv.Videos {
		v := &inv.Videos[i]
		v.SubtitlePath = SameStemSubtitle(v.AbsPath)
		_, v.HasSubtitle = files[v.SubtitlePath]
	}
	sort.Slice(inv.Videos, func(i, j int) bool { return inv.Videos[i].Path < inv.Videos[j].Path })
	sort.Slice(inv.Subtitles, func(i, j int) bool { return inv.Subtitles[i].Path < inv.Subtitles[j].Path })
	return inv, nil
}

// SameStemSubtitle returns path with its extension replaced by ".srt".
func SameStemSubtitle(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".srt"
}

func extensionSet(values, fallback []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, value := range values {
		ext := strings.ToLower(strings.TrimSpace(value))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		set[ext] = struct{}{}
	}
	if len(set) == 0 && len(fallback) > 0 {
		return extensionSet(fallback, nil)
	}
	return set
}

func contains(set map[string]struct{}, key string) bool {
	_, ok := set[key]
	return ok
}
