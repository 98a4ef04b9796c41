package dynamo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/dakshh-official/dakshh-api/internal/domain"
)

// RegistrationRepo provides typed DynamoDB operations for the registrations
// table. Check-in and food-serving transitions are conditional writes so that
// two scanning devices racing on the same registration cannot both win.
type RegistrationRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewRegistrationRepo(client *dynamodb.Client, tableName string) *RegistrationRepo {
	return &RegistrationRepo{client: client, tableName: tableName}
}

func (r *RegistrationRepo) Put(ctx context.Context, reg *domain.Registration) error {
	item, err := attributevalue.MarshalMap(reg)
	if err != nil {
		return fmt.Errorf("marshal registration: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *RegistrationRepo) Get(ctx context.Context, registrationID string) (*domain.Registration, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("registration_id", registrationID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("registration not found: %w", domain.ErrNotFound)
	}
	var reg domain.Registration
	if err := attributevalue.UnmarshalMap(out.Item, &reg); err != nil {
		return nil, err
	}
	return &reg, nil
}

// ListByEvent returns all registrations for an event via the event_id GSI.
func (r *RegistrationRepo) ListByEvent(ctx context.Context, eventID string) ([]domain.Registration, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String("event_id-index"),
		KeyConditionExpression:    aws.String("event_id = :e"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":e": &types.AttributeValueMemberS{Value: eventID}},
	})
	if err != nil {
		return nil, err
	}
	var regs []domain.Registration
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &regs); err != nil {
		return nil, err
	}
	return regs, nil
}

// FindByEventAndUser resolves the registration covering userID for an event,
// whether the user owns it or appears as a team member.
func (r *RegistrationRepo) FindByEventAndUser(ctx context.Context, eventID, userID string) (*domain.Registration, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("event_id-index"),
		KeyConditionExpression: aws.String("event_id = :e"),
		FilterExpression:       aws.String("owner_id = :u OR contains(team_member_ids, :u)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":e": &types.AttributeValueMemberS{Value: eventID},
			":u": &types.AttributeValueMemberS{Value: userID},
		},
	})
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("registration not found: %w", domain.ErrNotFound)
	}
	var reg domain.Registration
	if err := attributevalue.UnmarshalMap(out.Items[0], &reg); err != nil {
		return nil, err
	}
	return &reg, nil
}

func (r *RegistrationRepo) Update(ctx context.Context, registrationID string, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now().UTC().Format(time.RFC3339)
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("registration_id", registrationID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return err
}

// CheckIn flips checked_in from false to true exactly once. The write is
// conditional on the current value, so of two concurrent entry scans only one
// succeeds; the other gets domain.ErrConflict.
func (r *RegistrationRepo) CheckIn(ctx context.Context, registrationID, checkedInBy string, at time.Time) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 strKey("registration_id", registrationID),
		ConditionExpression: aws.String("checked_in = :f"),
		UpdateExpression:    aws.String("SET checked_in = :t, checked_in_at = :at, checked_in_by = :by, updated_at = :at"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":f":  &types.AttributeValueMemberBOOL{Value: false},
			":t":  &types.AttributeValueMemberBOOL{Value: true},
			":at": &types.AttributeValueMemberS{Value: at.UTC().Format(time.RFC3339)},
			":by": &types.AttributeValueMemberS{Value: checkedInBy},
		},
	})
	if isConditionalCheckFailed(err) {
		return fmt.Errorf("already checked in: %w", domain.ErrConflict)
	}
	return err
}

// ServeFood increments food_served_count, conditional on the count still being
// the one the caller observed. A concurrent serving invalidates the condition
// and surfaces as domain.ErrConflict instead of a double count.
func (r *RegistrationRepo) ServeFood(ctx context.Context, registrationID string, observedCount int, at time.Time) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 strKey("registration_id", registrationID),
		ConditionExpression: aws.String("food_served_count = :seen"),
		UpdateExpression:    aws.String("SET food_served_count = :next, last_food_served_at = :at, updated_at = :at"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":seen": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", observedCount)},
			":next": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", observedCount+1)},
			":at":   &types.AttributeValueMemberS{Value: at.UTC().Format(time.RFC3339)},
		},
	})
	if isConditionalCheckFailed(err) {
		return fmt.Errorf("food count changed concurrently: %w", domain.ErrConflict)
	}
	return err
}

func isConditionalCheckFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}
