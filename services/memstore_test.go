package services

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"sync"
	"time"

	"fanlink_server/models"
	"fanlink_server/utils"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// memStore is an in-memory Datastore used by the service tests. Items are
// held in marshaled attribute-value form so the dynamodbav tags exercise the
// same code paths as the real store.
type memStore struct {
	mu     sync.Mutex
	tables map[string]map[string]map[string]types.AttributeValue
}

// keyAttrs mirrors the table schemas. Composite keys are joined in order.
var keyAttrs = map[string][]string{
	models.PostsTable:         {"id"},
	models.StoriesTable:       {"id"},
	models.InteractionsTable:  {"id"},
	models.UsersTable:         {"id"},
	models.MessagesTable:      {"conversationId", "messageId"},
	models.NotificationsTable: {"id"},
}

func newMemStore() *memStore {
	return &memStore{tables: make(map[string]map[string]map[string]types.AttributeValue)}
}

func (m *memStore) table(name string) map[string]map[string]types.AttributeValue {
	if m.tables[name] == nil {
		m.tables[name] = make(map[string]map[string]types.AttributeValue)
	}
	return m.tables[name]
}

func tableKeyAttrs(tableName string) []string {
	if attrs, ok := keyAttrs[tableName]; ok {
		return attrs
	}
	return []string{"id"}
}

func compositeKey(tableName string, key map[string]string) string {
	parts := make([]string, 0, 2)
	for _, attr := range tableKeyAttrs(tableName) {
		parts = append(parts, key[attr])
	}
	return strings.Join(parts, "|")
}

func itemKey(tableName string, item map[string]types.AttributeValue) string {
	parts := make([]string, 0, 2)
	for _, attr := range tableKeyAttrs(tableName) {
		parts = append(parts, utils.ExtractString(item, attr))
	}
	return strings.Join(parts, "|")
}

// upsert returns the stored item for the key, creating a bare one holding
// just the key attributes when absent, matching UpdateItem semantics.
func (m *memStore) upsert(tableName string, key map[string]string) map[string]types.AttributeValue {
	table := m.table(tableName)
	ck := compositeKey(tableName, key)
	if table[ck] == nil {
		item := make(map[string]types.AttributeValue, len(key))
		for attr, value := range key {
			item[attr] = &types.AttributeValueMemberS{Value: value}
		}
		table[ck] = item
	}
	return table[ck]
}

func (m *memStore) GetItem(ctx context.Context, tableName string, key map[string]string, out interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.table(tableName)[compositeKey(tableName, key)]
	if !ok {
		return ErrItemNotFound
	}
	return attributevalue.UnmarshalMap(item, out)
}

func (m *memStore) PutItem(ctx context.Context, tableName string, item interface{}) error {
	marshaled, err := attributevalue.MarshalMap(item)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.table(tableName)[itemKey(tableName, marshaled)] = marshaled
	return nil
}

func (m *memStore) PutItemIfAbsent(ctx context.Context, tableName string, item interface{}, keyAttr string) error {
	marshaled, err := attributevalue.MarshalMap(item)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	table := m.table(tableName)
	ck := itemKey(tableName, marshaled)
	if _, exists := table[ck]; exists {
		return ErrConditionFailed
	}
	table[ck] = marshaled
	return nil
}

func (m *memStore) DeleteItem(ctx context.Context, tableName string, key map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.table(tableName), compositeKey(tableName, key))
	return nil
}

func (m *memStore) DeleteItemIfExists(ctx context.Context, tableName string, key map[string]string, keyAttr string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	table := m.table(tableName)
	ck := compositeKey(tableName, key)
	if _, exists := table[ck]; !exists {
		return ErrConditionFailed
	}
	delete(table, ck)
	return nil
}

func (m *memStore) AtomicAdd(ctx context.Context, tableName string, key map[string]string, field string, delta int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item := m.upsert(tableName, key)
	current := utils.ExtractNumber(item, field)
	if delta < 0 && current < -delta {
		item[field] = &types.AttributeValueMemberN{Value: "0"}
		return 0, nil
	}
	updated := current + delta
	item[field] = &types.AttributeValueMemberN{Value: strconv.Itoa(updated)}
	return updated, nil
}

func (m *memStore) SetField(ctx context.Context, tableName string, key map[string]string, field string, value interface{}) error {
	marshaled, err := attributevalue.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upsert(tableName, key)[field] = marshaled
	return nil
}

func (m *memStore) AddToStringSet(ctx context.Context, tableName string, key map[string]string, field, member string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	item := m.upsert(tableName, key)
	set, _ := item[field].(*types.AttributeValueMemberSS)
	if set == nil {
		item[field] = &types.AttributeValueMemberSS{Value: []string{member}}
		return nil
	}
	for _, existing := range set.Value {
		if existing == member {
			return nil
		}
	}
	set.Value = append(set.Value, member)
	return nil
}

func (m *memStore) AppendToList(ctx context.Context, tableName string, key map[string]string, field string, value interface{}) error {
	marshaled, err := attributevalue.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	item := m.upsert(tableName, key)
	list, _ := item[field].(*types.AttributeValueMemberL)
	if list == nil {
		list = &types.AttributeValueMemberL{}
		item[field] = list
	}
	list.Value = append(list.Value, marshaled)
	return nil
}

func (m *memStore) QueryByField(ctx context.Context, tableName, indexName, field, value string, limit int32, out interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matches []map[string]types.AttributeValue
	for _, item := range m.table(tableName) {
		if utils.ExtractString(item, field) == value {
			matches = append(matches, item)
		}
		if int32(len(matches)) >= limit {
			break
		}
	}
	return attributevalue.UnmarshalListOfMaps(matches, out)
}

func (m *memStore) QueryByKey(ctx context.Context, tableName, keyAttr, keyValue string, limit int32, out interface{}) error {
	return m.QueryByField(ctx, tableName, "", keyAttr, keyValue, limit, out)
}

func (m *memStore) ScanNumericAtMost(ctx context.Context, tableName, field string, max int64, out interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matches []map[string]types.AttributeValue
	for _, item := range m.table(tableName) {
		if _, present := item[field]; !present {
			continue
		}
		if int64(utils.ExtractNumber(item, field)) <= max {
			matches = append(matches, item)
		}
	}
	return attributevalue.UnmarshalListOfMaps(matches, out)
}

func (m *memStore) BatchDeleteItems(ctx context.Context, tableName string, keys []map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	table := m.table(tableName)
	for _, key := range keys {
		delete(table, compositeKey(tableName, key))
	}
	return nil
}

func (m *memStore) has(tableName string, key map[string]string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.table(tableName)[compositeKey(tableName, key)]
	return ok
}

var _ Datastore = (*memStore)(nil)

// memCache is an in-memory Cache. TTLs are recorded but not enforced; tests
// that care about expiry drive it through the counters directly.
type memCache struct {
	mu       sync.Mutex
	data     map[string][]byte
	counters map[string]int64
	ttls     map[string]time.Duration
	incrErr  error
}

func newMemCache() *memCache {
	return &memCache{
		data:     make(map[string][]byte),
		counters: make(map[string]int64),
		ttls:     make(map[string]time.Duration),
	}
}

func (c *memCache) Get(ctx context.Context, key string, out interface{}) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.data[key]
	if !ok {
		return false
	}
	return json.Unmarshal(raw, out) == nil
}

func (c *memCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = raw
	c.ttls[key] = ttl
}

func (c *memCache) Del(ctx context.Context, keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.data, key)
	}
}

func (c *memCache) DelPattern(ctx context.Context, pattern string) {
	prefix := strings.TrimSuffix(pattern, "*")
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.data {
		if strings.HasPrefix(key, prefix) {
			delete(c.data, key)
		}
	}
}

func (c *memCache) Incr(ctx context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.incrErr != nil {
		return 0, c.incrErr
	}
	c.counters[key]++
	return c.counters[key], nil
}

func (c *memCache) Expire(ctx context.Context, key string, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ttls[key] = ttl
}

var _ Cache = (*memCache)(nil)
