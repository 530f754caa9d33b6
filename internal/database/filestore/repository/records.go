package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"intake/config"
	"intake/internal/core"
	"intake/internal/database/filestore/model"
	"intake/internal/telemetry"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"
)

var ErrNotFound = errors.New("record not found")

const recordExt = ".json"

// RecordRepository 檔案型儲存：一筆紀錄一個檔案，依擷取日期分區成目錄。
// 分區讓 delete-older-than 是 O(分區數)，list-recent 由新到舊掃分區即可截斷。
// id → 分區的索引常駐記憶體，啟動時由目錄結構重建。
type RecordRepository struct {
	logger *zap.Logger
	trace  *telemetry.Trace
	root   string

	mu    sync.RWMutex
	index map[string]string
}

func NewRecordRepository(conf *config.Configuration, logger *zap.Logger, trace *telemetry.Trace) (*RecordRepository, error) {
	root := conf.Storage.Root
	if root == "" {
		root = "data/requests"
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}

	repository := &RecordRepository{
		logger: logger,
		trace:  trace,
		root:   root,
		index:  make(map[string]string),
	}
	if err := repository.rebuildIndex(); err != nil {
		return nil, err
	}
	logger.Info("record index rebuilt",
		zap.String("root", root),
		zap.Int("records", len(repository.index)),
	)
	return repository, nil
}

// rebuildIndex 啟動時掃目錄重建 id → 分區索引；不合日期格式的目錄跳過
func (repository *RecordRepository) rebuildIndex() error {
	entries, err := os.ReadDir(repository.root)
	if err != nil {
		return fmt.Errorf("scan storage root: %w", err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		partition := entry.Name()
		if _, err := time.Parse(model.PartitionLayout, partition); err != nil {
			continue
		}
		files, err := os.ReadDir(filepath.Join(repository.root, partition))
		if err != nil {
			repository.logger.Warn("skip unreadable partition", zap.String("partition", partition), zap.Error(err))
			continue
		}
		for _, file := range files {
			name := file.Name()
			if file.IsDir() || !strings.HasSuffix(name, recordExt) {
				continue
			}
			repository.index[strings.TrimSuffix(name, recordExt)] = partition
		}
	}
	return nil
}

// Save 寫入新紀錄。先寫 temp 檔再 rename，讀取端不會看到半寫的檔案。
func (repository *RecordRepository) Save(ctx context.Context, record *model.CapturedRequest) (returnedError error) {
	_, span, endSpan := repository.trace.WithSpan(ctx)
	defer func() { endSpan(returnedError) }()

	partition := record.Partition()
	repository.trace.ApplyTraceAttributes(span, core.TraceStoreMeta{
		Op:        "save",
		RecordID:  record.ID,
		Partition: partition,
	})

	payload, err := sonic.Marshal(record)
	if err != nil {
		returnedError = fmt.Errorf("encode record %s: %w", record.ID, err)
		return returnedError
	}

	dir := filepath.Join(repository.root, partition)

	// 同分區的目錄建立與索引註冊序列化；不同分區的檔案寫入互不影響
	repository.mu.Lock()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		repository.mu.Unlock()
		returnedError = fmt.Errorf("create partition %s: %w", partition, err)
		return returnedError
	}
	repository.mu.Unlock()

	final := filepath.Join(dir, record.ID+recordExt)
	tmp := final + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		returnedError = fmt.Errorf("write record %s: %w", record.ID, err)
		return returnedError
	}
	if err := os.Rename(tmp, final); err != nil {
		_ = os.Remove(tmp)
		returnedError = fmt.Errorf("commit record %s: %w", record.ID, err)
		return returnedError
	}

	repository.mu.Lock()
	repository.index[record.ID] = partition
	repository.mu.Unlock()
	return nil
}

// GetByID 依 id 取回完整紀錄；不存在回傳 ErrNotFound
func (repository *RecordRepository) GetByID(ctx context.Context, id string) (record *model.CapturedRequest, returnedError error) {
	_, span, endSpan := repository.trace.WithSpan(ctx)
	defer func() { endSpan(returnedError) }()

	repository.trace.ApplyTraceAttributes(span, core.TraceStoreMeta{Op: "get", RecordID: id})

	repository.mu.RLock()
	partition, ok := repository.index[id]
	repository.mu.RUnlock()
	if !ok {
		returnedError = ErrNotFound
		return nil, returnedError
	}

	record, err := repository.readRecord(partition, id)
	if err != nil {
		if os.IsNotExist(err) {
			returnedError = ErrNotFound
			return nil, returnedError
		}
		returnedError = err
		return nil, returnedError
	}
	return record, nil
}

// ListRecent 由新到舊回傳最多 limit 筆；search 非空時做不分大小寫子字串過濾。
// 單筆損壞只記 log 跳過，不讓整個列表失敗。
func (repository *RecordRepository) ListRecent(ctx context.Context, limit int, search string) (records []*model.CapturedRequest, returnedError error) {
	_, span, endSpan := repository.trace.WithSpan(ctx)
	defer func() { endSpan(returnedError) }()

	if limit <= 0 {
		limit = 50
	}
	search = strings.ToLower(search)

	partitions, err := repository.partitionsDesc()
	if err != nil {
		returnedError = err
		return nil, returnedError
	}

	records = make([]*model.CapturedRequest, 0, limit)
	for _, partition := range partitions {
		if len(records) >= limit {
			break
		}
		batch := repository.readPartition(partition)
		// 分區內再依擷取時間由新到舊
		sort.Slice(batch, func(i, j int) bool {
			return batch[i].ReceivedAt.After(batch[j].ReceivedAt)
		})
		for _, record := range batch {
			if search != "" && !matchRecord(record, search) {
				continue
			}
			records = append(records, record)
			if len(records) >= limit {
				break
			}
		}
	}

	repository.trace.ApplyTraceAttributes(span, core.TraceStoreMeta{Op: "list", Count: len(records)})
	return records, nil
}

// DeleteOlderThan 移除分區日期早於 cutoff 當日的所有分區，回傳刪除筆數。
// 重複呼叫是冪等的；與 Save 並行安全（索引鎖內逐分區處理，
// 今日分區永遠不會早於 cutoff，不會刪到寫入中的紀錄）。
func (repository *RecordRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (deleted int, returnedError error) {
	_, span, endSpan := repository.trace.WithSpan(ctx)
	defer func() { endSpan(returnedError) }()

	cutoffDay := cutoff.UTC().Format(model.PartitionLayout)
	partitions, err := repository.partitionsDesc()
	if err != nil {
		returnedError = err
		return 0, returnedError
	}

	var failures []string
	for _, partition := range partitions {
		if partition >= cutoffDay {
			continue
		}

		repository.mu.Lock()
		dir := filepath.Join(repository.root, partition)
		files, err := os.ReadDir(dir)
		if err != nil {
			repository.mu.Unlock()
			repository.logger.Warn("retention: skip unreadable partition", zap.String("partition", partition), zap.Error(err))
			failures = append(failures, partition)
			continue
		}
		count := 0
		for _, file := range files {
			if strings.HasSuffix(file.Name(), recordExt) {
				count++
			}
		}
		if err := os.RemoveAll(dir); err != nil {
			repository.mu.Unlock()
			repository.logger.Warn("retention: delete partition failed", zap.String("partition", partition), zap.Error(err))
			failures = append(failures, partition)
			continue
		}
		for id, part := range repository.index {
			if part == partition {
				delete(repository.index, id)
			}
		}
		repository.mu.Unlock()
		deleted += count
	}

	repository.trace.ApplyTraceAttributes(span, core.TraceStoreMeta{Op: "delete_older_than", Count: deleted})
	if len(failures) > 0 {
		returnedError = fmt.Errorf("retention: %d partition(s) failed: %s", len(failures), strings.Join(failures, ","))
	}
	return deleted, returnedError
}

// Count 目前索引中的紀錄數
func (repository *RecordRepository) Count() int {
	repository.mu.RLock()
	defer repository.mu.RUnlock()
	return len(repository.index)
}

func (repository *RecordRepository) partitionsDesc() ([]string, error) {
	entries, err := os.ReadDir(repository.root)
	if err != nil {
		return nil, fmt.Errorf("scan storage root: %w", err)
	}
	partitions := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, err := time.Parse(model.PartitionLayout, entry.Name()); err != nil {
			continue
		}
		partitions = append(partitions, entry.Name())
	}
	// 日期格式字典序即時間序
	sort.Sort(sort.Reverse(sort.StringSlice(partitions)))
	return partitions, nil
}

func (repository *RecordRepository) readPartition(partition string) []*model.CapturedRequest {
	dir := filepath.Join(repository.root, partition)
	files, err := os.ReadDir(dir)
	if err != nil {
		repository.logger.Warn("skip unreadable partition", zap.String("partition", partition), zap.Error(err))
		return nil
	}

	records := make([]*model.CapturedRequest, 0, len(files))
	for _, file := range files {
		name := file.Name()
		if file.IsDir() || !strings.HasSuffix(name, recordExt) {
			continue
		}
		record, err := repository.readRecord(partition, strings.TrimSuffix(name, recordExt))
		if err != nil {
			repository.logger.Warn("skip corrupt record",
				zap.String("partition", partition),
				zap.String("file", name),
				zap.Error(err),
			)
			continue
		}
		records = append(records, record)
	}
	return records
}

func (repository *RecordRepository) readRecord(partition, id string) (*model.CapturedRequest, error) {
	payload, err := os.ReadFile(filepath.Join(repository.root, partition, id+recordExt))
	if err != nil {
		return nil, err
	}
	var record model.CapturedRequest
	if err := sonic.Unmarshal(payload, &record); err != nil {
		return nil, fmt.Errorf("decode record %s: %w", id, err)
	}
	return &record, nil
}

func matchRecord(record *model.CapturedRequest, search string) bool {
	if strings.Contains(strings.ToLower(record.ID), search) ||
		strings.Contains(strings.ToLower(record.Method), search) ||
		strings.Contains(strings.ToLower(record.Path), search) ||
		strings.Contains(strings.ToLower(record.Query), search) ||
		strings.Contains(strings.ToLower(record.SourceAddress), search) {
		return true
	}
	if utf8.Valid(record.RawBody) {
		return strings.Contains(strings.ToLower(string(record.RawBody)), search)
	}
	return false
}
