package moves

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	mgerrors "github.com/matzehuels/movegraph/pkg/errors"
	"github.com/matzehuels/movegraph/pkg/httputil"
	"github.com/matzehuels/movegraph/pkg/observability"
)

// Source loads a complete moveset. Load either returns the whole moveset or
// an error; callers never see a partial result.
type Source interface {
	Load(ctx context.Context) (Moveset, error)

	// Describe names the source for logs and cache keys, e.g. "file:moveset.json".
	Describe() string
}

// Load runs src and reports the outcome to the pipeline hooks. Every error is
// coded; uncoded errors become FETCH_FAILED.
func Load(ctx context.Context, src Source) (Moveset, error) {
	name := src.Describe()
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, name)

	start := time.Now()
	ms, err := src.Load(ctx)
	if err == nil {
		err = ms.Validate()
	}
	if err != nil && mgerrors.GetCode(err) == "" {
		err = mgerrors.Wrap(mgerrors.ErrCodeFetch, err, "load moveset from %s", name)
	}
	hooks.OnLoadComplete(ctx, name, len(ms), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return ms, nil
}

// =============================================================================
// File
// =============================================================================

// FileSource reads a JSON or YAML moveset from disk.
type FileSource struct {
	Path string
}

// Load reads and decodes the file.
func (s FileSource) Load(ctx context.Context) (Moveset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ReadFile(s.Path)
}

// Describe returns "file:<path>".
func (s FileSource) Describe() string { return "file:" + s.Path }

// =============================================================================
// HTTP
// =============================================================================

// HTTPSource fetches a moveset document over HTTP, such as the /moveset
// endpoint of a running server.
type HTTPSource struct {
	URL    string
	Format Format
	client *httputil.Client
}

// NewHTTPSource creates a source for rawURL. A nil client selects a client
// with default options, which does not retry.
func NewHTTPSource(rawURL string, client *httputil.Client) (*HTTPSource, error) {
	if err := mgerrors.ValidateURL(rawURL); err != nil {
		return nil, err
	}
	if client == nil {
		client = httputil.NewClient(httputil.ClientOptions{})
	}
	return &HTTPSource{URL: rawURL, Format: FormatFromPath(rawURL), client: client}, nil
}

// Load fetches and decodes the document. Any non-2xx response fails the load.
func (s *HTTPSource) Load(ctx context.Context) (Moveset, error) {
	body, err := s.client.Get(ctx, s.URL)
	if err != nil {
		var serr *httputil.StatusError
		switch {
		case errors.As(err, &serr) && serr.StatusCode == 404:
			return nil, mgerrors.Wrap(mgerrors.ErrCodeNotFound, err, "moveset not found at %s", s.URL)
		case errors.Is(err, context.DeadlineExceeded):
			return nil, mgerrors.Wrap(mgerrors.ErrCodeTimeout, err, "fetch %s", s.URL)
		default:
			return nil, mgerrors.Wrap(mgerrors.ErrCodeFetch, err, "fetch %s", s.URL)
		}
	}
	return Parse(body, s.Format)
}

// Describe returns the URL.
func (s *HTTPSource) Describe() string { return s.URL }

// =============================================================================
// MongoDB
// =============================================================================

// MongoSource reads one document per move from a MongoDB collection. The
// move name comes from the NameField (default "name") and the remaining
// fields use the same keys as a JSON moveset.
type MongoSource struct {
	URI        string
	Database   string
	Collection string
	NameField  string
	Logger     *log.Logger
}

// Load connects, reads the whole collection and disconnects.
func (s MongoSource) Load(ctx context.Context) (Moveset, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(s.URI))
	if err != nil {
		return nil, mgerrors.Wrap(mgerrors.ErrCodeNetwork, err, "connect to mongodb")
	}
	defer func() {
		if err := client.Disconnect(context.WithoutCancel(ctx)); err != nil && s.Logger != nil {
			s.Logger.Warn("mongodb disconnect failed", "err", err)
		}
	}()

	cursor, err := client.Database(s.Database).Collection(s.Collection).Find(ctx, bson.D{})
	if err != nil {
		return nil, mgerrors.Wrap(mgerrors.ErrCodeFetch, err, "query %s.%s", s.Database, s.Collection)
	}
	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, mgerrors.Wrap(mgerrors.ErrCodeFetch, err, "read %s.%s", s.Database, s.Collection)
	}
	return movesetFromDocuments(docs, s.nameField())
}

// Describe returns "mongodb:<database>.<collection>".
func (s MongoSource) Describe() string {
	return fmt.Sprintf("mongodb:%s.%s", s.Database, s.Collection)
}

func (s MongoSource) nameField() string {
	if s.NameField == "" {
		return "name"
	}
	return s.NameField
}

// movesetFromDocuments converts BSON documents through relaxed extended
// JSON so that Record's lenient decoding applies unchanged.
func movesetFromDocuments(docs []bson.M, nameField string) (Moveset, error) {
	ms := make(Moveset, len(docs))
	for i, doc := range docs {
		name, _ := doc[nameField].(string)
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, mgerrors.New(mgerrors.ErrCodeInvalidMoveset, "document %d has no %q field", i, nameField)
		}
		delete(doc, nameField)
		delete(doc, "_id")

		data, err := bson.MarshalExtJSON(doc, false, false)
		if err != nil {
			return nil, mgerrors.Wrap(mgerrors.ErrCodeInvalidMoveset, err, "encode move %q", name)
		}
		var rec Record
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, mgerrors.Wrap(mgerrors.ErrCodeInvalidMoveset, err, "decode move %q", name)
		}
		ms[name] = rec
	}
	return ms, nil
}
