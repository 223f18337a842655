package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"github.com/metalstreets/contact-backend/services/intake-service/models"
)

// DynamoAPI is the subset of the DynamoDB client the store uses.
type DynamoAPI interface {
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
	CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// DynamoStore keeps one item per record, keyed by a time-ordered uuid so a
// sorted scan gives append order.
type DynamoStore struct {
	client     DynamoAPI
	table      string
	createWait time.Duration
	newID      func() (uuid.UUID, error)
	now        func() time.Time
}

func NewDynamoStore(client DynamoAPI, table string) *DynamoStore {
	return &DynamoStore{
		client:     client,
		table:      table,
		createWait: 2 * time.Minute,
		newID:      uuid.NewV7,
		now:        time.Now,
	}
}

type ddbSubmission struct {
	ID           string `dynamodbav:"id"`
	Timestamp    string `dynamodbav:"timestamp"`
	Name         string `dynamodbav:"name"`
	Email        string `dynamodbav:"email"`
	Phone        string `dynamodbav:"phone"`
	Country      string `dynamodbav:"country"`
	BusinessType string `dynamodbav:"business_type"`
	Services     string `dynamodbav:"services"`
	Budget       string `dynamodbav:"budget,omitempty"`
	CreatedAt    string `dynamodbav:"created_at"`
}

func (s *DynamoStore) Name() string { return "dynamodb:" + s.table }

func (s *DynamoStore) EnsureStore(ctx context.Context) (bool, error) {
	_, err := s.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: &s.table})
	if err == nil {
		return false, nil
	}
	var rnf *types.ResourceNotFoundException
	if !errors.As(err, &rnf) {
		return false, fmt.Errorf("dynamodb DescribeTable failed: %w", err)
	}

	_, err = s.client.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: &s.table,
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: sdkaws.String("id"), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: sdkaws.String("id"), KeyType: types.KeyTypeHash},
		},
		BillingMode: types.BillingModePayPerRequest,
	})
	if err != nil {
		var inUse *types.ResourceInUseException
		if errors.As(err, &inUse) {
			// another instance is creating it
			return false, s.waitActive(ctx)
		}
		return false, fmt.Errorf("dynamodb CreateTable failed: %w", err)
	}
	if err := s.waitActive(ctx); err != nil {
		return false, err
	}
	return true, nil
}

func (s *DynamoStore) waitActive(ctx context.Context) error {
	waiter := dynamodb.NewTableExistsWaiter(s.client, func(o *dynamodb.TableExistsWaiterOptions) {
		o.MinDelay = 1 * time.Second
		o.MaxDelay = 5 * time.Second
	})
	if err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{TableName: &s.table}, s.createWait); err != nil {
		return fmt.Errorf("waiting for table %s: %w", s.table, err)
	}
	return nil
}

func (s *DynamoStore) Append(ctx context.Context, rec models.SubmissionRecord) error {
	id, err := s.newID()
	if err != nil {
		return fmt.Errorf("generate id: %w", err)
	}
	item, err := attributevalue.MarshalMap(ddbSubmission{
		ID:           id.String(),
		Timestamp:    rec.Timestamp,
		Name:         rec.Name,
		Email:        rec.Email,
		Phone:        rec.Phone,
		Country:      rec.Country,
		BusinessType: rec.BusinessType,
		Services:     rec.Services,
		Budget:       rec.Budget,
		CreatedAt:    s.now().UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return fmt.Errorf("marshal submission: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           &s.table,
		Item:                item,
		ConditionExpression: sdkaws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		var rnf *types.ResourceNotFoundException
		if errors.As(err, &rnf) {
			return ErrStoreMissing
		}
		return fmt.Errorf("dynamodb PutItem failed: %w", err)
	}
	return nil
}

func (s *DynamoStore) List(ctx context.Context) ([]models.SubmissionRecord, error) {
	var items []ddbSubmission
	paginator := dynamodb.NewScanPaginator(s.client, &dynamodb.ScanInput{TableName: &s.table})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			var rnf *types.ResourceNotFoundException
			if errors.As(err, &rnf) {
				return nil, ErrStoreMissing
			}
			return nil, fmt.Errorf("dynamodb Scan failed: %w", err)
		}
		var batch []ddbSubmission
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("unmarshal submissions: %w", err)
		}
		items = append(items, batch...)
	}

	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })

	records := make([]models.SubmissionRecord, 0, len(items))
	for _, it := range items {
		records = append(records, models.SubmissionRecord{
			Timestamp:    it.Timestamp,
			Name:         it.Name,
			Email:        it.Email,
			Phone:        it.Phone,
			Country:      it.Country,
			BusinessType: it.BusinessType,
			Services:     it.Services,
			Budget:       it.Budget,
		})
	}
	return records, nil
}
