package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestDisk pins the clock and runs the test from a temp dir, since
// upload roots are relative to the working directory.
func newTestDisk(t *testing.T) *Disk {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { os.Chdir(wd) })

	d := NewDisk("uploads")
	d.now = func() time.Time { return time.UnixMilli(1756360800000) }
	return d
}

func TestSaveUserID(t *testing.T) {
	d := newTestDisk(t)

	url, err := d.SaveUserID("passport.PNG", []byte("img"))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/user_ids/1756360800000.png", url)

	data, err := os.ReadFile(filepath.Join("uploads", "user_ids", "1756360800000.png"))
	require.NoError(t, err)
	assert.Equal(t, "img", string(data))
}

func TestSavePostImage(t *testing.T) {
	d := newTestDisk(t)

	url, err := d.SavePostImage("store front.jpg", []byte("img"))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/post/1756360800000-store_front.jpg", url)
}

func TestSaveSanitizesPathTraversal(t *testing.T) {
	d := newTestDisk(t)

	url, err := d.Save("../../etc/passwd", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/1756360800000-passwd", url)

	_, err = os.Stat(filepath.Join("uploads", "1756360800000-passwd"))
	assert.NoError(t, err)
}

func TestLeaseRoundTrip(t *testing.T) {
	d := newTestDisk(t)

	url, err := d.SaveLease("lease-300-1756360800.txt", []byte("the lease text"))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/leases/lease-300-1756360800.txt", url)

	// Templates load back by the same URL path Save returned.
	text, err := d.LoadTemplate(url)
	require.NoError(t, err)
	assert.Equal(t, "the lease text", text)
}

func TestLoadTemplateMissing(t *testing.T) {
	d := newTestDisk(t)
	_, err := d.LoadTemplate("/uploads/nope.txt")
	assert.Error(t, err)
}
