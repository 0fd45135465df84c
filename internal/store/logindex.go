// internal/store/logindex.go
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"agency-notify/internal/common/logger"
	"agency-notify/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
)

// LogIndexer mirrors notification log rows into an Elasticsearch index
// for audit search. The index is not the source of truth: indexing
// failures are logged and swallowed so a search outage can never block
// a dispatch.
type LogIndexer struct {
	client *elasticsearch.Client
	index  string
	logger logger.Logger
}

func NewLogIndexer(client *elasticsearch.Client, index string, log logger.Logger) *LogIndexer {
	return &LogIndexer{
		client: client,
		index:  index,
		logger: log.WithFields(map[string]interface{}{"component": "log-indexer"}),
	}
}

// Index writes one log document keyed by the log row ID.
func (i *LogIndexer) Index(ctx context.Context, entry *models.NotificationLog) {
	if i == nil || i.client == nil {
		return
	}

	body, err := json.Marshal(entry)
	if err != nil {
		i.logger.Warn("log document marshal failed", map[string]interface{}{
			"logId": entry.ID,
			"error": err.Error(),
		})
		return
	}

	res, err := i.client.Index(
		i.index,
		bytes.NewReader(body),
		i.client.Index.WithDocumentID(entry.ID),
		i.client.Index.WithContext(ctx),
	)
	if err != nil {
		i.logger.Warn("log indexing failed", map[string]interface{}{
			"logId": entry.ID,
			"error": err.Error(),
		})
		return
	}
	defer res.Body.Close()

	if res.IsError() {
		i.logger.Warn("log indexing rejected", map[string]interface{}{
			"logId":  entry.ID,
			"status": fmt.Sprintf("%d", res.StatusCode),
		})
	}
}
