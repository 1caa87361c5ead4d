package filestore

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/igolaizola/inko/pkg/filestore/local"
	"github.com/igolaizola/inko/pkg/filestore/s3"
	"github.com/igolaizola/inko/pkg/filestore/tgstore"
	inkimg "github.com/igolaizola/inko/pkg/image"
	"github.com/igolaizola/inko/pkg/storage"
)

type fs interface {
	Upload(ctx context.Context, path, name string) error
	Download(ctx context.Context, path, name string) error
}

type Store struct {
	fs fs
}

// SetImage uploads the rendered image at path under the render id.
func (s *Store) SetImage(ctx context.Context, path, id string, f inkimg.Format) error {
	return s.fs.Upload(ctx, path, Name(id, f))
}

// GetImage downloads the rendered image of the render id to path.
func (s *Store) GetImage(ctx context.Context, path, id string, f inkimg.Format) error {
	return s.fs.Download(ctx, path, Name(id, f))
}

// New creates a file store. The connection string depends on the type:
//
//	local:    <directory>
//	s3:       <key>:<secret>@<bucket>.<region>
//	telegram: <token>@<chat id>
func New(typ, conn, proxy string, debug bool, store *storage.Store) (*Store, error) {
	var fs fs
	switch typ {
	case "telegram":
		if store == nil {
			return nil, fmt.Errorf("filestore: telegram needs a database")
		}
		split := strings.Split(conn, "@")
		if len(split) != 2 {
			return nil, fmt.Errorf("filestore: invalid telegram connection string %q", conn)
		}
		token := split[0]
		chat, err := strconv.ParseInt(split[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("filestore: invalid telegram chat id %q: %w", split[1], err)
		}
		candidate, err := tgstore.New(token, chat, proxy, debug, store)
		if err != nil {
			return nil, fmt.Errorf("filestore: %w", err)
		}
		fs = candidate
	case "s3":
		split := strings.Split(conn, "@")
		if len(split) != 2 {
			return nil, fmt.Errorf("filestore: invalid s3 connection string %q", conn)
		}
		auth := strings.Split(split[0], ":")
		if len(auth) != 2 {
			return nil, fmt.Errorf("filestore: invalid s3 auth string %q", conn)
		}
		key := auth[0]
		secret := auth[1]
		loc := strings.Split(split[1], ".")
		if len(loc) != 2 {
			return nil, fmt.Errorf("filestore: invalid s3 location string %q", conn)
		}
		bucket := loc[0]
		region := loc[1]
		candidate, err := s3.New(key, secret, region, bucket, debug)
		if err != nil {
			return nil, fmt.Errorf("filestore: %w", err)
		}
		fs = candidate
	case "local":
		candidate, err := local.New(conn, debug)
		if err != nil {
			return nil, fmt.Errorf("filestore: %w", err)
		}
		fs = candidate
	default:
		return nil, fmt.Errorf("filestore: unknown file storage type %q", typ)
	}
	return &Store{fs: fs}, nil
}

// Name returns the remote file name of a render.
func Name(id string, f inkimg.Format) string {
	return id + "." + f.Extension()
}
