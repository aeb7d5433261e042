// Package storage keeps uploaded files on local disk under the uploads
// directory, optionally mirroring each write to R2.
package storage

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// Disk writes uploads beneath Root and returns URL paths the static
// file route serves. Filenames are timestamped so repeat uploads never
// clobber each other.
type Disk struct {
	Root   string
	Mirror *R2

	now func() time.Time
}

func NewDisk(root string) *Disk {
	return &Disk{Root: root, now: time.Now}
}

// SaveUserID stores an identity document as user_ids/<unix-ms><ext>.
func (d *Disk) SaveUserID(filename string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	name := fmt.Sprintf("%d%s", d.now().UnixMilli(), ext)
	return d.write(path.Join("user_ids", name), data)
}

// SavePostImage stores a listing image as post/<unix-ms>-<name>.
func (d *Disk) SavePostImage(filename string, data []byte) (string, error) {
	name := fmt.Sprintf("%d-%s", d.now().UnixMilli(), sanitize(filename))
	return d.write(path.Join("post", name), data)
}

// Save stores any other upload as <unix-ms>-<name> at the top level.
func (d *Disk) Save(filename string, data []byte) (string, error) {
	name := fmt.Sprintf("%d-%s", d.now().UnixMilli(), sanitize(filename))
	return d.write(name, data)
}

// SaveLease stores a generated lease document under leases/.
func (d *Disk) SaveLease(name string, data []byte) (string, error) {
	return d.write(path.Join("leases", sanitize(name)), data)
}

// LoadTemplate reads an uploaded lease template back by its URL path.
func (d *Disk) LoadTemplate(urlPath string) (string, error) {
	rel := strings.TrimPrefix(urlPath, "/")
	rel = strings.TrimPrefix(rel, path.Clean(d.Root)+"/")
	data, err := os.ReadFile(filepath.Join(d.Root, filepath.FromSlash(rel)))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (d *Disk) write(rel string, data []byte) (string, error) {
	full := filepath.Join(d.Root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", err
	}

	urlPath := "/" + path.Join(path.Clean(d.Root), rel)
	if d.Mirror != nil {
		d.Mirror.Put(rel, data)
	}
	return urlPath, nil
}

// sanitize strips directory parts and whitespace from client filenames.
func sanitize(name string) string {
	base := filepath.Base(filepath.Clean(name))
	return strings.ReplaceAll(base, " ", "_")
}
