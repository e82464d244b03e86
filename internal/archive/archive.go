// Package archive stages a manifest as an xz-compressed tarball, with every file stored under its destination
// path. Headers carry no timestamps or ownership so the same manifest always produces the same archive.
package archive

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ulikunitz/xz"

	"github.com/adamkeys/tkbundle"
)

// epoch is the modification time recorded for every file.
var epoch = time.Unix(0, 0).UTC()

// Write writes the files of m to w as a .tar.xz stream.
func Write(w io.Writer, m tkbundle.Manifest) error {
	xzWriter, err := xz.NewWriter(w)
	if err != nil {
		return fmt.Errorf("xz writer: %w", err)
	}

	tw := tar.NewWriter(xzWriter)
	for _, entry := range m {
		if err := writeFile(tw, entry); err != nil {
			return err
		}
	}

	if err := tw.Close(); err != nil {
		return fmt.Errorf("close tar: %w", err)
	}
	if err := xzWriter.Close(); err != nil {
		return fmt.Errorf("close xz: %w", err)
	}
	return nil
}

// writeFile adds one manifest entry. Symlinks are stored as the files they point to.
func writeFile(tw *tar.Writer, entry tkbundle.ManifestEntry) error {
	f, err := os.Open(entry.Source)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat: %w", err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s: not a regular file", entry.Source)
	}

	hdr := &tar.Header{
		Typeflag: tar.TypeReg,
		Name:     entry.Dest,
		Mode:     int64(info.Mode().Perm()),
		Size:     info.Size(),
		ModTime:  epoch,
		Format:   tar.FormatPAX,
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("%s: header: %w", entry.Dest, err)
	}
	if _, err := io.Copy(tw, f); err != nil {
		return fmt.Errorf("%s: copy: %w", entry.Dest, err)
	}
	return nil
}

// List returns the file names stored in a .tar.xz stream, in archive order.
func List(r io.Reader) ([]string, error) {
	xzReader, err := xz.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("xz reader: %w", err)
	}

	var names []string
	tr := tar.NewReader(xzReader)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return names, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read tar: %w", err)
		}
		names = append(names, hdr.Name)
	}
}
