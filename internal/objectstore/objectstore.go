// Package objectstore stores uploaded files in named buckets and hands back
// the public URL under which each file can be fetched.
package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrInvalidObjectName is returned for bucket or object names that could
// escape their bucket.
var ErrInvalidObjectName = errors.New("objectstore: invalid object name")

// Object is one file to store. Size may be -1 when unknown.
type Object struct {
	Bucket      string
	Name        string
	ContentType string
	Body        io.Reader
	Size        int64
}

// Store writes objects, replacing any existing object with the same name.
type Store interface {
	Put(ctx context.Context, obj Object) (publicURL string, err error)
}

func validate(obj Object) error {
	for _, part := range []string{obj.Bucket, obj.Name} {
		if part == "" || part == "." || part == ".." || strings.ContainsAny(part, `/\`) {
			return fmt.Errorf("%w: %q", ErrInvalidObjectName, part)
		}
	}
	if obj.Body == nil {
		return fmt.Errorf("objectstore: empty body for %s/%s", obj.Bucket, obj.Name)
	}
	return nil
}
