// Package provider holds koanf providers that read through afero or from
// bytes already in memory.
package provider

import (
	"errors"

	"github.com/knadh/koanf/v2"
	"github.com/spf13/afero"
)

// AferoFile reads a config file from an afero filesystem.
type AferoFile struct {
	fs   afero.Fs
	path string
}

var _ koanf.Provider = (*AferoFile)(nil)

// Afero returns a provider for path on fsys.
func Afero(fsys afero.Fs, path string) *AferoFile {
	return &AferoFile{fs: fsys, path: path}
}

// ReadBytes returns the raw file content.
func (a *AferoFile) ReadBytes() ([]byte, error) {
	return afero.ReadFile(a.fs, a.path)
}

// Read is not supported; use ReadBytes with a parser.
func (a *AferoFile) Read() (map[string]any, error) {
	return nil, errors.New("afero provider does not support Read()")
}

// RawBytes serves bytes already in memory.
type RawBytes []byte

var _ koanf.Provider = RawBytes(nil)

// Bytes returns a provider for data.
func Bytes(data []byte) RawBytes {
	return RawBytes(data)
}

// ReadBytes returns the bytes.
func (b RawBytes) ReadBytes() ([]byte, error) {
	return b, nil
}

// Read is not supported; use ReadBytes with a parser.
func (b RawBytes) Read() (map[string]any, error) {
	return nil, errors.New("bytes provider does not support Read()")
}
