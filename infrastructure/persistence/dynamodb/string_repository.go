// Package dynamodb stores strings in a single DynamoDB table keyed by content hash.
package dynamodb

import (
	"context"
	"errors"
	"fmt"

	"stringanalyzer/application/ports"
	"stringanalyzer/domain/core/entities"
	"stringanalyzer/domain/core/filters"
	"stringanalyzer/domain/core/valueobjects"
	pkgerrors "stringanalyzer/pkg/errors"
	"stringanalyzer/pkg/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// API is the subset of the DynamoDB client the repository uses
type API interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

// StringRepository implements ports.StringRepository using DynamoDB
type StringRepository struct {
	client    API
	tableName string
	logger    *zap.Logger
}

var _ ports.StringRepository = (*StringRepository)(nil)

// NewStringRepository creates a new StringRepository
func NewStringRepository(client API, tableName string, logger *zap.Logger) *StringRepository {
	return &StringRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// stringItem represents the DynamoDB item structure for a stored string
type stringItem struct {
	ID         string         `dynamodbav:"id"`
	Value      string         `dynamodbav:"value"`
	Properties propertiesItem `dynamodbav:"properties"`
	CreatedAt  string         `dynamodbav:"created_at"`
}

type propertiesItem struct {
	Length                int            `dynamodbav:"length"`
	IsPalindrome          bool           `dynamodbav:"is_palindrome"`
	UniqueCharacters      int            `dynamodbav:"unique_characters"`
	WordCount             int            `dynamodbav:"word_count"`
	SHA256Hash            string         `dynamodbav:"sha256_hash"`
	CharacterFrequencyMap map[string]int `dynamodbav:"character_frequency_map"`
}

func toItem(record *entities.StringRecord) stringItem {
	p := record.Properties()
	return stringItem{
		ID:    record.ID().String(),
		Value: record.Value(),
		Properties: propertiesItem{
			Length:                p.Length,
			IsPalindrome:          p.IsPalindrome,
			UniqueCharacters:      p.UniqueCharacters,
			WordCount:             p.WordCount,
			SHA256Hash:            p.SHA256Hash,
			CharacterFrequencyMap: p.CharacterFrequencyMap,
		},
		CreatedAt: utils.FormatRFC3339(record.CreatedAt()),
	}
}

func (i stringItem) toRecord() (*entities.StringRecord, error) {
	id, err := valueobjects.NewContentHashFromString(i.ID)
	if err != nil {
		return nil, err
	}
	createdAt, err := utils.ParseRFC3339(i.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid created_at %q: %w", i.CreatedAt, err)
	}

	return entities.ReconstructStringRecord(id, i.Value, valueobjects.Properties{
		Length:                i.Properties.Length,
		IsPalindrome:          i.Properties.IsPalindrome,
		UniqueCharacters:      i.Properties.UniqueCharacters,
		WordCount:             i.Properties.WordCount,
		SHA256Hash:            i.Properties.SHA256Hash,
		CharacterFrequencyMap: i.Properties.CharacterFrequencyMap,
	}, createdAt)
}

func (r *StringRepository) key(id valueobjects.ContentHash) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: id.String()},
	}
}

// Insert writes the record unless an item with the same id already exists
func (r *StringRepository) Insert(ctx context.Context, record *entities.StringRecord) error {
	av, err := attributevalue.MarshalMap(toItem(record))
	if err != nil {
		return pkgerrors.NewInternalError("failed to marshal string").WithCause(err)
	}

	expr, err := expression.NewBuilder().
		WithCondition(expression.Name("id").AttributeNotExists()).
		Build()
	if err != nil {
		return pkgerrors.NewInternalError("failed to build expression").WithCause(err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                 aws.String(r.tableName),
		Item:                      av,
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return pkgerrors.NewDuplicateError("String already exists in the system")
		}
		r.logger.Error("Failed to save string to DynamoDB",
			zap.Error(err),
			zap.String("id", record.ID().String()),
		)
		return pkgerrors.NewDatabaseError("put_item", err)
	}

	r.logger.Debug("String saved", zap.String("id", record.ID().String()))
	return nil
}

// GetByID retrieves a record by its content hash
func (r *StringRepository) GetByID(ctx context.Context, id valueobjects.ContentHash) (*entities.StringRecord, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            r.key(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get_item", err)
	}
	if result.Item == nil {
		return nil, pkgerrors.NewNotFoundError("string")
	}

	var item stringItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, pkgerrors.NewInternalError("failed to unmarshal string").WithCause(err)
	}

	record, err := item.toRecord()
	if err != nil {
		return nil, pkgerrors.NewInternalError("corrupt string item").WithCause(err)
	}
	return record, nil
}

// Exists reports whether an item with the id is stored without reading the whole item
func (r *StringRepository) Exists(ctx context.Context, id valueobjects.ContentHash) (bool, error) {
	expr, err := expression.NewBuilder().
		WithProjection(expression.NamesList(expression.Name("id"))).
		Build()
	if err != nil {
		return false, pkgerrors.NewInternalError("failed to build expression").WithCause(err)
	}

	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:                aws.String(r.tableName),
		Key:                      r.key(id),
		ProjectionExpression:     expr.Projection(),
		ExpressionAttributeNames: expr.Names(),
		ConsistentRead:           aws.Bool(true),
	})
	if err != nil {
		return false, pkgerrors.NewDatabaseError("get_item", err)
	}
	return result.Item != nil, nil
}

// Find scans the table. Property predicates are pushed into the scan filter;
// the character predicate is applied here because DynamoDB contains() is
// case-sensitive.
func (r *StringRepository) Find(ctx context.Context, filter filters.Filter) ([]*entities.StringRecord, error) {
	input := &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
	}

	if cond, ok := buildScanCondition(filter); ok {
		expr, err := expression.NewBuilder().WithFilter(cond).Build()
		if err != nil {
			return nil, pkgerrors.NewInternalError("failed to build expression").WithCause(err)
		}
		input.FilterExpression = expr.Filter()
		input.ExpressionAttributeNames = expr.Names()
		input.ExpressionAttributeValues = expr.Values()
	}

	records := make([]*entities.StringRecord, 0)
	paginator := dynamodb.NewScanPaginator(r.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, pkgerrors.NewDatabaseError("scan", err)
		}

		for _, av := range page.Items {
			var item stringItem
			if err := attributevalue.UnmarshalMap(av, &item); err != nil {
				r.logger.Warn("Failed to unmarshal string item", zap.Error(err))
				continue
			}
			if !filter.MatchesValue(item.Value) {
				continue
			}
			record, err := item.toRecord()
			if err != nil {
				r.logger.Warn("Skipping corrupt string item", zap.String("id", item.ID), zap.Error(err))
				continue
			}
			records = append(records, record)
		}
	}

	entities.SortByCreation(records)
	return records, nil
}

// buildScanCondition ANDs the property predicates of the filter
func buildScanCondition(filter filters.Filter) (expression.ConditionBuilder, bool) {
	var conds []expression.ConditionBuilder

	if filter.IsPalindrome != nil {
		conds = append(conds, expression.Name("properties.is_palindrome").Equal(expression.Value(*filter.IsPalindrome)))
	}
	if filter.WordCount != nil {
		conds = append(conds, expression.Name("properties.word_count").Equal(expression.Value(*filter.WordCount)))
	}
	if filter.MinLength != nil {
		conds = append(conds, expression.Name("properties.length").GreaterThanEqual(expression.Value(*filter.MinLength)))
	}
	if filter.MaxLength != nil {
		conds = append(conds, expression.Name("properties.length").LessThanEqual(expression.Value(*filter.MaxLength)))
	}

	switch len(conds) {
	case 0:
		return expression.ConditionBuilder{}, false
	case 1:
		return conds[0], true
	default:
		return expression.And(conds[0], conds[1], conds[2:]...), true
	}
}

// Delete removes the item, failing with NOT_FOUND when it is absent
func (r *StringRepository) Delete(ctx context.Context, id valueobjects.ContentHash) error {
	expr, err := expression.NewBuilder().
		WithCondition(expression.Name("id").AttributeExists()).
		Build()
	if err != nil {
		return pkgerrors.NewInternalError("failed to build expression").WithCause(err)
	}

	_, err = r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       r.key(id),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return pkgerrors.NewNotFoundError("string")
		}
		return pkgerrors.NewDatabaseError("delete_item", err)
	}

	r.logger.Debug("String deleted", zap.String("id", id.String()))
	return nil
}

// Ping checks the table is reachable
func (r *StringRepository) Ping(ctx context.Context) error {
	_, err := r.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(r.tableName),
	})
	if err != nil {
		return pkgerrors.NewUnavailableError("dynamodb").WithCause(err)
	}
	return nil
}
