package database

import (
	client "intake/internal/database/client"
	filestoreRepo "intake/internal/database/filestore/repository"
	fluentdRepo "intake/internal/database/fluentd/repository"

	"github.com/google/wire"
)

// ProviderSet 定義所有儲存層的依賴
var ProviderSet = wire.NewSet(
	client.NewClient,
	filestoreRepo.ProviderSet,
	fluentdRepo.ProviderSet,
)
