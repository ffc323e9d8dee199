package media

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/noah-isme/school-website-api/pkg/storage"
)

// LocalHost keeps images on disk and serves them from publicBaseURL.
type LocalHost struct {
	store         *storage.LocalStorage
	publicBaseURL string
}

// NewLocalHost wraps store; publicBaseURL is the address the directory is served under.
func NewLocalHost(store *storage.LocalStorage, publicBaseURL string) *LocalHost {
	return &LocalHost{store: store, publicBaseURL: strings.TrimRight(publicBaseURL, "/")}
}

// Upload resizes and writes data under spec.Folder. The returned ID is the relative path.
func (h *LocalHost) Upload(_ context.Context, data []byte, spec Spec) (Asset, error) {
	format, err := Prepare(data, spec)
	if err != nil {
		return Asset{}, err
	}
	body, err := LimitSize(data, format, spec.MaxWidth, spec.MaxHeight)
	if err != nil {
		return Asset{}, err
	}

	name := path.Join(spec.Folder, uuid.NewString()+"."+format)
	if _, err := h.store.Save(name, body); err != nil {
		return Asset{}, fmt.Errorf("store %s: %w", name, err)
	}
	return Asset{URL: h.publicBaseURL + "/" + name, ID: name}, nil
}

// Delete removes the file previously returned as id.
func (h *LocalHost) Delete(_ context.Context, id string) error {
	return h.store.Delete(id)
}
