// Package storage saves uploaded images to local disk and serves them back by
// URL path.
package storage

import (
	"errors"
	"fmt"
	"github.com/google/uuid"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
)

var ErrInvalidImage = errors.New("only .jpg, .jpeg and .png images are accepted")

var allowExtensions = []string{".jpg", ".jpeg", ".png"}

func isValidImageExtension(name string) bool {
	fileExt := strings.ToLower(filepath.Ext(name))
	for _, allowExt := range allowExtensions {
		if fileExt == allowExt {
			return true
		}
	}
	return false
}

func makeUniqueFileName(name string) string {
	name = filepath.Base(name)
	fileExt := filepath.Ext(name)
	fileBase := strings.TrimSuffix(name, fileExt)
	return fmt.Sprintf("%s_%s%s", fileBase, uuid.NewString(), strings.ToLower(fileExt))
}

type LocalStore struct {
	dir       string
	urlPrefix string
}

func NewLocalStore(dir, urlPrefix string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{dir: dir, urlPrefix: strings.TrimSuffix(urlPrefix, "/")}, nil
}

func (s *LocalStore) Dir() string       { return s.dir }
func (s *LocalStore) URLPrefix() string { return s.urlPrefix }

// SaveImages stores every file and returns their public URLs. If one file
// fails, the files already written by this call are removed.
func (s *LocalStore) SaveImages(files []*multipart.FileHeader) ([]string, error) {
	for _, file := range files {
		if !isValidImageExtension(file.Filename) {
			return nil, fmt.Errorf("%s: %w", file.Filename, ErrInvalidImage)
		}
	}

	urls := make([]string, 0, len(files))
	for _, file := range files {
		url, err := s.save(file)
		if err != nil {
			for _, written := range urls {
				_ = s.Remove(written)
			}
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func (s *LocalStore) save(file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	return s.write(file.Filename, src)
}

// write copies src into a new uniquely named file. A failed copy leaves no
// file behind.
func (s *LocalStore) write(name string, src io.Reader) (string, error) {
	imageName := makeUniqueFileName(name)
	target := filepath.Join(s.dir, imageName)
	dst, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		_ = os.Remove(target)
		return "", fmt.Errorf("write image file: %w", err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(target)
		return "", fmt.Errorf("write image file: %w", err)
	}
	return s.urlPrefix + "/" + imageName, nil
}

// Remove deletes the file behind a URL returned by SaveImages. URLs outside
// the store's prefix are rejected.
func (s *LocalStore) Remove(url string) error {
	name := strings.TrimPrefix(url, s.urlPrefix+"/")
	if name == url || name == "" || path.Base(name) != name {
		return fmt.Errorf("image %q is not in this store", url)
	}
	return os.Remove(filepath.Join(s.dir, name))
}
