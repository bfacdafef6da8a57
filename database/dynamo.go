package database

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"github.com/aws/aws-sdk-go/service/dynamodb/expression"

	"github.com/sahilchouksey/lms-api/config"
	"github.com/sahilchouksey/lms-api/model"
)

// Table names, one per entity
const (
	coursesTable      = "Course"
	transactionsTable = "Transaction"
	progressTable     = "UserCourseProgress"
)

// DynamoStorage implements Storage on DynamoDB. One table per entity,
// primary-key addressed; the course table additionally carries a version
// attribute used for conditional writes.
type DynamoStorage struct {
	db *dynamodb.DynamoDB
}

// NewDynamoStorage connects to DynamoDB. When DYNAMODB_ENDPOINT is set
// (DynamoDB local in development) the client is pointed at it with dummy
// credentials, otherwise the default AWS credential chain applies.
func NewDynamoStorage(env *config.EnvironmentVariable) (*DynamoStorage, error) {
	awsConfig := &aws.Config{
		Region: aws.String(env.AWS_REGION),
	}
	if env.DYNAMODB_ENDPOINT != "" {
		awsConfig.Endpoint = aws.String(env.DYNAMODB_ENDPOINT)
		awsConfig.Credentials = credentials.NewStaticCredentials("local", "local", "")
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &DynamoStorage{db: dynamodb.New(sess)}, nil
}

func (s *DynamoStorage) GetCourse(ctx context.Context, courseID string) (*model.Course, error) {
	out, err := s.db.GetItemWithContext(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(coursesTable),
		Key: map[string]*dynamodb.AttributeValue{
			"courseId": {S: aws.String(courseID)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	if out.Item == nil {
		return nil, ErrNotFound
	}

	var course model.Course
	if err := dynamodbattribute.UnmarshalMap(out.Item, &course); err != nil {
		return nil, fmt.Errorf("failed to unmarshal course: %w", err)
	}
	return &course, nil
}

func (s *DynamoStorage) PutCourse(ctx context.Context, course *model.Course, expectedVersion int) error {
	item, err := dynamodbattribute.MarshalMap(course)
	if err != nil {
		return fmt.Errorf("failed to marshal course: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(coursesTable),
		Item:      item,
	}
	if expectedVersion == 0 {
		input.ConditionExpression = aws.String("attribute_not_exists(courseId)")
	} else {
		input.ConditionExpression = aws.String("#v = :expected")
		input.ExpressionAttributeNames = map[string]*string{"#v": aws.String("version")}
		input.ExpressionAttributeValues = map[string]*dynamodb.AttributeValue{
			":expected": {N: aws.String(strconv.Itoa(expectedVersion))},
		}
	}

	if _, err := s.db.PutItemWithContext(ctx, input); err != nil {
		if awsErr, ok := err.(awserr.Error); ok && awsErr.Code() == dynamodb.ErrCodeConditionalCheckFailedException {
			return ErrVersionConflict
		}
		return fmt.Errorf("failed to put course: %w", err)
	}
	return nil
}

func (s *DynamoStorage) ScanCourses(ctx context.Context, category string) ([]model.Course, error) {
	input := &dynamodb.ScanInput{
		TableName: aws.String(coursesTable),
	}
	if category != "" {
		expr, err := expression.NewBuilder().
			WithFilter(expression.Name("category").Equal(expression.Value(category))).
			Build()
		if err != nil {
			return nil, fmt.Errorf("failed to build category filter: %w", err)
		}
		input.FilterExpression = expr.Filter()
		input.ExpressionAttributeNames = expr.Names()
		input.ExpressionAttributeValues = expr.Values()
	}

	courses := []model.Course{}
	err := s.db.ScanPagesWithContext(ctx, input, func(page *dynamodb.ScanOutput, lastPage bool) bool {
		var batch []model.Course
		if err := dynamodbattribute.UnmarshalListOfMaps(page.Items, &batch); err == nil {
			courses = append(courses, batch...)
		}
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan courses: %w", err)
	}
	return courses, nil
}

func (s *DynamoStorage) DeleteCourse(ctx context.Context, courseID string) error {
	_, err := s.db.DeleteItemWithContext(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(coursesTable),
		Key: map[string]*dynamodb.AttributeValue{
			"courseId": {S: aws.String(courseID)},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}
	return nil
}

func (s *DynamoStorage) GetProgress(ctx context.Context, userID, courseID string) (*model.UserCourseProgress, error) {
	out, err := s.db.GetItemWithContext(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(progressTable),
		Key: map[string]*dynamodb.AttributeValue{
			"userId":   {S: aws.String(userID)},
			"courseId": {S: aws.String(courseID)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get progress: %w", err)
	}
	if out.Item == nil {
		return nil, ErrNotFound
	}

	var progress model.UserCourseProgress
	if err := dynamodbattribute.UnmarshalMap(out.Item, &progress); err != nil {
		return nil, fmt.Errorf("failed to unmarshal progress: %w", err)
	}
	return &progress, nil
}

func (s *DynamoStorage) PutProgress(ctx context.Context, progress *model.UserCourseProgress) error {
	item, err := dynamodbattribute.MarshalMap(progress)
	if err != nil {
		return fmt.Errorf("failed to marshal progress: %w", err)
	}
	_, err = s.db.PutItemWithContext(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(progressTable),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to put progress: %w", err)
	}
	return nil
}

func (s *DynamoStorage) ListProgressByUser(ctx context.Context, userID string) ([]model.UserCourseProgress, error) {
	expr, err := expression.NewBuilder().
		WithKeyCondition(expression.Key("userId").Equal(expression.Value(userID))).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build key condition: %w", err)
	}

	out, err := s.db.QueryWithContext(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(progressTable),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query progress: %w", err)
	}

	records := []model.UserCourseProgress{}
	if err := dynamodbattribute.UnmarshalListOfMaps(out.Items, &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal progress records: %w", err)
	}
	return records, nil
}

func (s *DynamoStorage) ScanProgress(ctx context.Context) ([]model.UserCourseProgress, error) {
	records := []model.UserCourseProgress{}
	err := s.db.ScanPagesWithContext(ctx, &dynamodb.ScanInput{
		TableName: aws.String(progressTable),
	}, func(page *dynamodb.ScanOutput, lastPage bool) bool {
		var batch []model.UserCourseProgress
		if err := dynamodbattribute.UnmarshalListOfMaps(page.Items, &batch); err == nil {
			records = append(records, batch...)
		}
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan progress: %w", err)
	}
	return records, nil
}

func (s *DynamoStorage) DeleteProgress(ctx context.Context, userID, courseID string) error {
	_, err := s.db.DeleteItemWithContext(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(progressTable),
		Key: map[string]*dynamodb.AttributeValue{
			"userId":   {S: aws.String(userID)},
			"courseId": {S: aws.String(courseID)},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete progress: %w", err)
	}
	return nil
}

func (s *DynamoStorage) PutTransaction(ctx context.Context, tx *model.Transaction) error {
	item, err := dynamodbattribute.MarshalMap(tx)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction: %w", err)
	}
	_, err = s.db.PutItemWithContext(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(transactionsTable),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to put transaction: %w", err)
	}
	return nil
}

func (s *DynamoStorage) ScanTransactions(ctx context.Context, userID string) ([]model.Transaction, error) {
	if userID != "" {
		expr, err := expression.NewBuilder().
			WithKeyCondition(expression.Key("userId").Equal(expression.Value(userID))).
			Build()
		if err != nil {
			return nil, fmt.Errorf("failed to build key condition: %w", err)
		}
		out, err := s.db.QueryWithContext(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(transactionsTable),
			KeyConditionExpression:    expr.KeyCondition(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to query transactions: %w", err)
		}
		txs := []model.Transaction{}
		if err := dynamodbattribute.UnmarshalListOfMaps(out.Items, &txs); err != nil {
			return nil, fmt.Errorf("failed to unmarshal transactions: %w", err)
		}
		return txs, nil
	}

	txs := []model.Transaction{}
	err := s.db.ScanPagesWithContext(ctx, &dynamodb.ScanInput{
		TableName: aws.String(transactionsTable),
	}, func(page *dynamodb.ScanOutput, lastPage bool) bool {
		var batch []model.Transaction
		if err := dynamodbattribute.UnmarshalListOfMaps(page.Items, &batch); err == nil {
			txs = append(txs, batch...)
		}
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan transactions: %w", err)
	}
	return txs, nil
}

func (s *DynamoStorage) Close() error {
	// The DynamoDB client holds no persistent connections.
	return nil
}
