package dynamodb

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"stringanalyzer/domain/core/entities"
	"stringanalyzer/domain/core/filters"
	"stringanalyzer/domain/core/valueobjects"
	pkgerrors "stringanalyzer/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeClient keeps items in memory. Scan ignores the filter expression and
// pages through items pageSize at a time.
type fakeClient struct {
	mu       sync.Mutex
	items    map[string]map[string]types.AttributeValue
	pageSize int
	failWith error

	scans []*dynamodb.ScanInput
}

func newFakeClient() *fakeClient {
	return &fakeClient{items: make(map[string]map[string]types.AttributeValue), pageSize: 2}
}

func idOf(key map[string]types.AttributeValue) string {
	return key["id"].(*types.AttributeValueMemberS).Value
}

func (f *fakeClient) PutItem(ctx context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	id := idOf(in.Item)
	if _, ok := f.items[id]; ok && in.ConditionExpression != nil {
		return nil, &types.ConditionalCheckFailedException{Message: aws.String("The conditional request failed")}
	}
	f.items[id] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeClient) GetItem(ctx context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	return &dynamodb.GetItemOutput{Item: f.items[idOf(in.Key)]}, nil
}

func (f *fakeClient) DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := idOf(in.Key)
	if _, ok := f.items[id]; !ok && in.ConditionExpression != nil {
		return nil, &types.ConditionalCheckFailedException{Message: aws.String("The conditional request failed")}
	}
	delete(f.items, id)
	return &dynamodb.DeleteItemOutput{}, nil
}

func (f *fakeClient) Scan(ctx context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	f.scans = append(f.scans, in)

	ids := make([]string, 0, len(f.items))
	for id := range f.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	start := 0
	if in.ExclusiveStartKey != nil {
		last := idOf(in.ExclusiveStartKey)
		start = sort.SearchStrings(ids, last) + 1
	}
	end := start + f.pageSize
	if end > len(ids) {
		end = len(ids)
	}

	out := &dynamodb.ScanOutput{}
	for _, id := range ids[start:end] {
		out.Items = append(out.Items, f.items[id])
	}
	if end < len(ids) {
		out.LastEvaluatedKey = map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: ids[end-1]}}
	}
	return out, nil
}

func (f *fakeClient) DescribeTable(ctx context.Context, in *dynamodb.DescribeTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	return &dynamodb.DescribeTableOutput{Table: &types.TableDescription{TableName: in.TableName}}, nil
}

func newRecord(t *testing.T, value string, offset time.Duration) *entities.StringRecord {
	t.Helper()
	r, err := entities.NewStringRecord(value, time.Date(2025, 10, 20, 12, 0, 0, 0, time.UTC).Add(offset))
	require.NoError(t, err)
	return r
}

func TestStringRepository_InsertAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewStringRepository(newFakeClient(), "strings", zap.NewNop())
	record := newRecord(t, "Hello, World", 0)

	require.NoError(t, repo.Insert(ctx, record))

	got, err := repo.GetByID(ctx, record.ID())
	require.NoError(t, err)
	assert.Equal(t, record.Value(), got.Value())
	assert.Equal(t, record.Properties(), got.Properties())
	assert.True(t, record.CreatedAt().Equal(got.CreatedAt()))

	exists, err := repo.Exists(ctx, record.ID())
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestStringRepository_InsertDuplicate(t *testing.T) {
	ctx := context.Background()
	repo := NewStringRepository(newFakeClient(), "strings", zap.NewNop())

	require.NoError(t, repo.Insert(ctx, newRecord(t, "level", 0)))
	err := repo.Insert(ctx, newRecord(t, "level", time.Minute))

	assert.True(t, pkgerrors.IsConflict(err))
	assert.Equal(t, pkgerrors.CodeDuplicate, pkgerrors.GetAppError(err).Code)
}

func TestStringRepository_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewStringRepository(newFakeClient(), "strings", zap.NewNop())
	id := valueobjects.NewContentHash("missing")

	_, err := repo.GetByID(ctx, id)
	assert.True(t, pkgerrors.IsNotFound(err))

	assert.True(t, pkgerrors.IsNotFound(repo.Delete(ctx, id)))

	exists, err := repo.Exists(ctx, id)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestStringRepository_Delete(t *testing.T) {
	ctx := context.Background()
	client := newFakeClient()
	repo := NewStringRepository(client, "strings", zap.NewNop())
	record := newRecord(t, "level", 0)

	require.NoError(t, repo.Insert(ctx, record))
	require.NoError(t, repo.Delete(ctx, record.ID()))
	assert.Empty(t, client.items)
}

func TestStringRepository_FindPaginatesAndFiltersValue(t *testing.T) {
	ctx := context.Background()
	client := newFakeClient()
	repo := NewStringRepository(client, "strings", zap.NewNop())

	for i, v := range []string{"Zebra", "apple", "zoo", "kiwi", "Fizz"} {
		require.NoError(t, repo.Insert(ctx, newRecord(t, v, time.Duration(i)*time.Minute)))
	}

	got, err := repo.Find(ctx, filters.Filter{ContainsCharacter: filters.Ptr("z")})
	require.NoError(t, err)

	values := make([]string, 0, len(got))
	for _, r := range got {
		values = append(values, r.Value())
	}
	assert.Equal(t, []string{"Zebra", "zoo", "Fizz"}, values)
	assert.Len(t, client.scans, 3)
	assert.Nil(t, client.scans[0].FilterExpression)
}

func TestStringRepository_FindBuildsFilterExpression(t *testing.T) {
	ctx := context.Background()
	client := newFakeClient()
	repo := NewStringRepository(client, "strings", zap.NewNop())

	_, err := repo.Find(ctx, filters.Filter{
		IsPalindrome: filters.Ptr(true),
		WordCount:    filters.Ptr(1),
		MinLength:    filters.Ptr(2),
		MaxLength:    filters.Ptr(9),
	})
	require.NoError(t, err)
	require.Len(t, client.scans, 1)

	scan := client.scans[0]
	require.NotNil(t, scan.FilterExpression)
	assert.Equal(t, 3, strings.Count(*scan.FilterExpression, "AND"))
	assert.Len(t, scan.ExpressionAttributeValues, 4)

	var names []string
	for _, n := range scan.ExpressionAttributeNames {
		names = append(names, n)
	}
	assert.ElementsMatch(t, []string{"properties", "is_palindrome", "word_count", "length"}, names)
}

func TestStringRepository_StoreErrors(t *testing.T) {
	ctx := context.Background()
	client := newFakeClient()
	client.failWith = errors.New("throttled")
	repo := NewStringRepository(client, "strings", zap.NewNop())

	err := repo.Insert(ctx, newRecord(t, "level", 0))
	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeDatabase))

	_, err = repo.Find(ctx, filters.Filter{})
	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeDatabase))

	err = repo.Ping(ctx)
	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeUnavailable))
}
