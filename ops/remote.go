package ops

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"fsc/client"
	"fsc/document"
	"fsc/entity"
)

// Tool drives CRUD operations against a feed service connection. The
// connection itself comes from the hosting environment; Tool adds the
// document handling around it: entry files are run through the embedding
// expander before parsing, results print as canonical entity XML.
type Tool struct {
	Client client.Interface
	Loader *document.Loader
	Log    *zap.Logger
}

// GetFeed retrieves all entries of the feed at url.
func (t *Tool) GetFeed(ctx context.Context, url string) (entity.Feed, error) {
	t.Log.Debug("Fetching feed", zap.String("url", url))
	return t.Client.GetFeed(ctx, url)
}

// GetEntry retrieves the entry at url.
func (t *Tool) GetEntry(ctx context.Context, url string) (*entity.Entity, error) {
	t.Log.Debug("Fetching entry", zap.String("url", url))
	return t.Client.GetEntry(ctx, url)
}

// InsertFile inserts a new entry into the feed at url from the entity XML
// document at path, embedded files resolved relative to it.
func (t *Tool) InsertFile(ctx context.Context, url, path string) (*entity.Entity, error) {
	e, err := t.loadEntry(path)
	if err != nil {
		return nil, err
	}
	return t.Insert(ctx, url, e)
}

// Insert inserts a new entry into the feed at url.
func (t *Tool) Insert(ctx context.Context, url string, e *entity.Entity) (*entity.Entity, error) {
	t.Log.Debug("Inserting entry", zap.String("url", url))
	return t.Client.Insert(ctx, url, e)
}

// UpdateFile updates the entry at url from the entity XML document at path.
func (t *Tool) UpdateFile(ctx context.Context, url, path string) (*entity.Entity, error) {
	e, err := t.loadEntry(path)
	if err != nil {
		return nil, err
	}
	return t.Update(ctx, url, e)
}

// Update updates the entry at url.
func (t *Tool) Update(ctx context.Context, url string, e *entity.Entity) (*entity.Entity, error) {
	t.Log.Debug("Updating entry", zap.String("url", url))
	return t.Client.Update(ctx, url, e)
}

// Delete removes the entry at url.
func (t *Tool) Delete(ctx context.Context, url string) error {
	t.Log.Debug("Deleting entry", zap.String("url", url))
	return t.Client.Delete(ctx, url)
}

// PrintFeed writes feed as indented entity XML.
func (t *Tool) PrintFeed(w io.Writer, feed entity.Feed) error {
	return entity.RenderFeed(w, feed)
}

// PrintEntry writes a single entry as indented entity XML.
func (t *Tool) PrintEntry(w io.Writer, e *entity.Entity) error {
	return entity.RenderEntity(w, e)
}

func (t *Tool) loadEntry(path string) (*entity.Entity, error) {
	text, err := t.Loader.Load(path)
	if err != nil {
		return nil, fmt.Errorf("unable to load entry document %q: %w", path, err)
	}
	e, err := client.ParseEntity(text)
	if err != nil {
		return nil, fmt.Errorf("unable to parse entry document %q: %w", path, err)
	}
	return e, nil
}
