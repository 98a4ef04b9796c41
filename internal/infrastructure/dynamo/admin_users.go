package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/dakshh-official/dakshh-api/internal/domain"
)

// AdminUserRepo provides typed DynamoDB operations for the admin_users table.
type AdminUserRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewAdminUserRepo(client *dynamodb.Client, tableName string) *AdminUserRepo {
	return &AdminUserRepo{client: client, tableName: tableName}
}

func (r *AdminUserRepo) Put(ctx context.Context, a *domain.AdminUser) error {
	item, err := attributevalue.MarshalMap(a)
	if err != nil {
		return fmt.Errorf("marshal admin user: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *AdminUserRepo) Get(ctx context.Context, adminID string) (*domain.AdminUser, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("admin_id", adminID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("admin user not found: %w", domain.ErrNotFound)
	}
	var a domain.AdminUser
	if err := attributevalue.UnmarshalMap(out.Item, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AdminUserRepo) GetByEmail(ctx context.Context, email string) (*domain.AdminUser, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String("email-index"),
		KeyConditionExpression:    aws.String("email = :v"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":v": &types.AttributeValueMemberS{Value: email}},
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("admin user not found: %w", domain.ErrNotFound)
	}
	var a domain.AdminUser
	if err := attributevalue.UnmarshalMap(out.Items[0], &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AdminUserRepo) Update(ctx context.Context, adminID string, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now().UTC().Format(time.RFC3339)
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("admin_id", adminID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return err
}

// Scan returns every admin user. The table is small (panel staff only).
func (r *AdminUserRepo) Scan(ctx context.Context) ([]domain.AdminUser, error) {
	out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
	})
	if err != nil {
		return nil, err
	}
	var admins []domain.AdminUser
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &admins); err != nil {
		return nil, err
	}
	return admins, nil
}
