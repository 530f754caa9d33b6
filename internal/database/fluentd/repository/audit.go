package repository

import (
	"context"
	"encoding/json"
	"time"

	"intake/config"
	"intake/internal/core"
	"intake/internal/database/client"
	"intake/internal/database/fluentd/model"
)

// AuditRepository 統一負責發送稽核事件到 Fluentd
type AuditRepository struct {
	fluentdClient client.Client
	version       string
}

func NewAuditRepository(config *config.Configuration, client client.Client) *AuditRepository {
	version := "1.0.0"
	if config.App.Version != "" {
		version = config.App.Version
	}
	return &AuditRepository{fluentdClient: client, version: version}
}

func (repository *AuditRepository) LogRejection(ctx context.Context, event model.RejectionEvent) error {
	if event.LoggedAt == "" {
		event.LoggedAt = time.Now().UTC().Format("2006-01-02 15:04:05.999999 UTC")
	}
	if event.Version == "" {
		event.Version = repository.version
	}
	return repository.post(ctx, core.FluentdAuditRejection, event)
}

func (repository *AuditRepository) LogStoreFault(ctx context.Context, event model.StoreFaultEvent) error {
	if event.LoggedAt == "" {
		event.LoggedAt = time.Now().UTC().Format("2006-01-02 15:04:05.999999 UTC")
	}
	if event.Version == "" {
		event.Version = repository.version
	}
	return repository.post(ctx, core.FluentdAuditStoreFault, event)
}

func (repository *AuditRepository) LogRetention(ctx context.Context, event model.RetentionEvent) error {
	if event.LoggedAt == "" {
		event.LoggedAt = time.Now().UTC().Format("2006-01-02 15:04:05.999999 UTC")
	}
	if event.Version == "" {
		event.Version = repository.version
	}
	return repository.post(ctx, core.FluentdAuditRetention, event)
}

func (repository *AuditRepository) post(ctx context.Context, tag core.FluentdSubTag, event any) error {
	b, _ := json.Marshal(event)
	var fluentdMessage map[string]any
	_ = json.Unmarshal(b, &fluentdMessage)
	return repository.fluentdClient.Post(ctx, string(tag), fluentdMessage)
}
