package model

import "encoding/base64"

// FileRef is an uploaded image held in memory until submission.
type FileRef struct {
	Name        string
	ContentType string
	Data        []byte
}

// ImageSource is a tagged variant: either an uploaded file or a URL
// string, never both. Assigning a new source through one of the
// constructors replaces the previous representation entirely.
type ImageSource struct {
	file *FileRef
	url  string
}

// ImageFromFile returns an ImageSource backed by an uploaded file.
func ImageFromFile(f FileRef) ImageSource {
	return ImageSource{file: &f}
}

// ImageFromURL returns an ImageSource backed by a URL string.
func ImageFromURL(u string) ImageSource {
	return ImageSource{url: u}
}

// File returns the file representation, if that is the active one.
func (s ImageSource) File() (FileRef, bool) {
	if s.file == nil {
		return FileRef{}, false
	}
	return *s.file, true
}

// URL returns the URL representation, if that is the active one.
func (s ImageSource) URL() (string, bool) {
	if s.file != nil || s.url == "" {
		return "", false
	}
	return s.url, true
}

// IsZero reports whether no representation is set.
func (s ImageSource) IsZero() bool {
	return s.file == nil && s.url == ""
}

// Preview derives the string used to render the image before submission:
// a data URL for files, the raw string for URLs.
func (s ImageSource) Preview() string {
	if s.file != nil {
		ct := s.file.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		return "data:" + ct + ";base64," + base64.StdEncoding.EncodeToString(s.file.Data)
	}
	return s.url
}
