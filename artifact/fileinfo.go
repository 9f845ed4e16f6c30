package artifact

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
)

// Info describes an artifact file on disk: its size and content hashes.
type Info struct {
	Size   int64
	MD5    string
	SHA1   string
	SHA256 string
}

// FileInfo streams the file once, computing its size and MD5/SHA1/SHA256
// digests, and returns the leading HeaderSize bytes for format detection.
func FileInfo(path string) (Info, []byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, nil, err
	}
	defer f.Close()

	header := make([]byte, HeaderSize)
	n, err := io.ReadFull(f, header)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return Info{}, nil, err
	}
	header = header[:n]

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return Info{}, nil, err
	}

	md5Hash := md5.New()
	sha1Hash := sha1.New()
	sha256Hash := sha256.New()
	size, err := io.Copy(io.MultiWriter(md5Hash, sha1Hash, sha256Hash), f)
	if err != nil {
		return Info{}, nil, err
	}

	return Info{
		Size:   size,
		MD5:    hex.EncodeToString(md5Hash.Sum(nil)),
		SHA1:   hex.EncodeToString(sha1Hash.Sum(nil)),
		SHA256: hex.EncodeToString(sha256Hash.Sum(nil)),
	}, header, nil
}
