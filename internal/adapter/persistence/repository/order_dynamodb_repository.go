package repository

import (
	"context"
	"errors"
	"time"

	"github.com/MatheusAzzevedo/avsite-sub000/internal/config"
	"github.com/MatheusAzzevedo/avsite-sub000/internal/domain/entities"
	"github.com/MatheusAzzevedo/avsite-sub000/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type orderItemRecord struct {
	ID    string `dynamodbav:"id"`
	Name  string `dynamodbav:"name"`
	TaxID string `dynamodbav:"tax_id"`
	Email string `dynamodbav:"email,omitempty"`
	Phone string `dynamodbav:"phone,omitempty"`
}

type responsiblePartyRecord struct {
	Name  string `dynamodbav:"name"`
	TaxID string `dynamodbav:"tax_id"`
	Email string `dynamodbav:"email,omitempty"`
	Phone string `dynamodbav:"phone,omitempty"`
}

type orderRecord struct {
	ID               string                  `dynamodbav:"id"`
	Category         string                  `dynamodbav:"category"`
	Status           string                  `dynamodbav:"status"`
	Quantity         int                     `dynamodbav:"quantity"`
	UnitPriceCents   int64                   `dynamodbav:"unit_price_cents"`
	TotalPriceCents  int64                   `dynamodbav:"total_price_cents"`
	PaymentMethod    string                  `dynamodbav:"payment_method,omitempty"`
	GatewayChargeID  string                  `dynamodbav:"gateway_charge_id,omitempty"`
	PaidAt           string                  `dynamodbav:"paid_at,omitempty"`
	ConfirmedAt      string                  `dynamodbav:"confirmed_at,omitempty"`
	NextCheckAt      string                  `dynamodbav:"next_check_at,omitempty"`
	ResponsibleParty *responsiblePartyRecord `dynamodbav:"responsible_party,omitempty"`
	Items            []orderItemRecord       `dynamodbav:"items,omitempty"`
	CreatedAt        string                  `dynamodbav:"created_at"`
	UpdatedAt        string                  `dynamodbav:"updated_at"`
}

// OrderDynamoRepository persists Order entities in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//
// Every write that can race (status transitions, first charge attachment)
// uses a ConditionExpression so that the update only lands when the row is
// still in the state the caller read. A failed condition is reported as a
// zero Order with a nil error.

type OrderDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.IOrderRepository = (*OrderDynamoRepository)(nil)

func NewOrderDynamoRepository(ddb *dynamodb.Client, cfg config.OrdersConfig) *OrderDynamoRepository {
	return &OrderDynamoRepository{
		ddb:       ddb,
		tableName: cfg.Table,
	}
}

func (r *OrderDynamoRepository) Create(ctx context.Context, o entities.Order) (entities.Order, error) {
	it := toOrderRecord(o)
	av, err := attributevalue.MarshalMap(it)
	if err != nil {
		return entities.Order{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
	})
	if err != nil {
		return entities.Order{}, err
	}
	return o, nil
}

func (r *OrderDynamoRepository) GetByID(ctx context.Context, id string) (entities.Order, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Order{}, err
	}
	if len(out.Item) == 0 {
		return entities.Order{}, nil
	}

	var it orderRecord
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Order{}, err
	}
	return fromOrderRecord(it), nil
}

// SetChargeCreated attaches the gateway charge id and moves the order to
// AGUARDANDO_PAGAMENTO. The condition enforces the one-charge-per-order
// invariant: it only succeeds while no charge id exists and the order is
// still PENDENTE.
func (r *OrderDynamoRepository) SetChargeCreated(ctx context.Context, id, chargeID string, method entities.PaymentMethod, nextCheckAt time.Time) (entities.Order, error) {
	return r.update(ctx, id,
		"attribute_exists(#id) AND attribute_not_exists(#gateway_charge_id) AND #status = :pending",
		func(now string) (string, map[string]types.AttributeValue, map[string]string) {
			expr := "SET #gateway_charge_id = :charge_id, #payment_method = :method, #status = :awaiting, #next_check_at = :next_check_at, #updated_at = :updated_at"
			vals := map[string]types.AttributeValue{
				":charge_id":     &types.AttributeValueMemberS{Value: chargeID},
				":method":        &types.AttributeValueMemberS{Value: string(method)},
				":awaiting":      &types.AttributeValueMemberS{Value: string(entities.OrderStatusAwaitingPayment)},
				":pending":       &types.AttributeValueMemberS{Value: string(entities.OrderStatusPending)},
				":next_check_at": &types.AttributeValueMemberS{Value: nextCheckAt.UTC().Format(time.RFC3339Nano)},
				":updated_at":    &types.AttributeValueMemberS{Value: now},
			}
			names := map[string]string{
				"#gateway_charge_id": "gateway_charge_id",
				"#payment_method":    "payment_method",
				"#status":            "status",
				"#next_check_at":     "next_check_at",
				"#updated_at":        "updated_at",
			}
			return expr, vals, names
		})
}

// UpdateStatusFrom is the compare-and-swap transition write: it only lands
// while the stored status still equals `from`. paidAt/confirmedAt are set
// only when non-nil so already-set timestamps are never overwritten.
func (r *OrderDynamoRepository) UpdateStatusFrom(ctx context.Context, id string, from, to entities.OrderStatus, paidAt, confirmedAt *time.Time) (entities.Order, error) {
	return r.update(ctx, id,
		"attribute_exists(#id) AND #status = :from",
		func(now string) (string, map[string]types.AttributeValue, map[string]string) {
			expr := "SET #status = :to, #updated_at = :updated_at"
			vals := map[string]types.AttributeValue{
				":from":       &types.AttributeValueMemberS{Value: string(from)},
				":to":         &types.AttributeValueMemberS{Value: string(to)},
				":updated_at": &types.AttributeValueMemberS{Value: now},
			}
			names := map[string]string{
				"#status":     "status",
				"#updated_at": "updated_at",
			}
			if paidAt != nil {
				expr += ", #paid_at = :paid_at"
				vals[":paid_at"] = &types.AttributeValueMemberS{Value: paidAt.UTC().Format(time.RFC3339Nano)}
				names["#paid_at"] = "paid_at"
			}
			if confirmedAt != nil {
				expr += ", #confirmed_at = :confirmed_at"
				vals[":confirmed_at"] = &types.AttributeValueMemberS{Value: confirmedAt.UTC().Format(time.RFC3339Nano)}
				names["#confirmed_at"] = "confirmed_at"
			}
			return expr, vals, names
		})
}

func (r *OrderDynamoRepository) SetNextCheckAt(ctx context.Context, id string, at time.Time) error {
	_, err := r.update(ctx, id,
		"attribute_exists(#id)",
		func(now string) (string, map[string]types.AttributeValue, map[string]string) {
			expr := "SET #next_check_at = :next_check_at, #updated_at = :updated_at"
			vals := map[string]types.AttributeValue{
				":next_check_at": &types.AttributeValueMemberS{Value: at.UTC().Format(time.RFC3339Nano)},
				":updated_at":    &types.AttributeValueMemberS{Value: now},
			}
			names := map[string]string{
				"#next_check_at": "next_check_at",
				"#updated_at":    "updated_at",
			}
			return expr, vals, names
		})
	return err
}

// ListAwaitingPayment scans for orders still pending gateway resolution that
// already have a charge attached. The result set is small by nature (orders
// leave it within hours), so a filtered scan is adequate.
func (r *OrderDynamoRepository) ListAwaitingPayment(ctx context.Context) ([]entities.Order, error) {
	var orders []entities.Order
	var startKey map[string]types.AttributeValue

	for {
		out, err := r.ddb.Scan(ctx, &dynamodb.ScanInput{
			TableName:        aws.String(r.tableName),
			FilterExpression: aws.String("(#status = :pending OR #status = :awaiting) AND attribute_exists(#gateway_charge_id)"),
			ExpressionAttributeNames: map[string]string{
				"#status":            "status",
				"#gateway_charge_id": "gateway_charge_id",
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":pending":  &types.AttributeValueMemberS{Value: string(entities.OrderStatusPending)},
				":awaiting": &types.AttributeValueMemberS{Value: string(entities.OrderStatusAwaitingPayment)},
			},
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, err
		}

		for _, raw := range out.Items {
			var it orderRecord
			if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
				return nil, err
			}
			orders = append(orders, fromOrderRecord(it))
		}

		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		startKey = out.LastEvaluatedKey
	}
	return orders, nil
}

func (r *OrderDynamoRepository) update(
	ctx context.Context,
	id string,
	condition string,
	build func(now string) (updateExpr string, values map[string]types.AttributeValue, names map[string]string),
) (entities.Order, error) {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	updateExpr, values, names := build(now)

	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConditionExpression:       aws.String(condition),
		UpdateExpression:          aws.String(updateExpr),
		ExpressionAttributeValues: values,
		ExpressionAttributeNames:  mergeNames(names, map[string]string{"#id": "id"}),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return entities.Order{}, nil
		}
		return entities.Order{}, err
	}
	if len(out.Attributes) == 0 {
		return entities.Order{}, nil
	}
	var it orderRecord
	if err := attributevalue.UnmarshalMap(out.Attributes, &it); err != nil {
		return entities.Order{}, err
	}
	return fromOrderRecord(it), nil
}

func toOrderRecord(o entities.Order) orderRecord {
	rec := orderRecord{
		ID:              o.ID,
		Category:        string(o.Category),
		Status:          string(o.Status),
		Quantity:        o.Quantity,
		UnitPriceCents:  o.UnitPriceCents,
		TotalPriceCents: o.TotalPriceCents,
		PaymentMethod:   string(o.PaymentMethod),
		GatewayChargeID: o.GatewayChargeID,
		PaidAt:          formatOptionalTime(o.PaidAt),
		ConfirmedAt:     formatOptionalTime(o.ConfirmedAt),
		NextCheckAt:     formatOptionalTime(o.NextCheckAt),
		CreatedAt:       o.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:       o.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
	if o.ResponsibleParty != nil {
		rec.ResponsibleParty = &responsiblePartyRecord{
			Name:  o.ResponsibleParty.Name,
			TaxID: o.ResponsibleParty.TaxID,
			Email: o.ResponsibleParty.Email,
			Phone: o.ResponsibleParty.Phone,
		}
	}
	for _, item := range o.Items {
		rec.Items = append(rec.Items, orderItemRecord{
			ID:    item.ID,
			Name:  item.Name,
			TaxID: item.TaxID,
			Email: item.Email,
			Phone: item.Phone,
		})
	}
	return rec
}

func fromOrderRecord(it orderRecord) entities.Order {
	createdAt, _ := time.Parse(time.RFC3339Nano, it.CreatedAt)
	updatedAt, _ := time.Parse(time.RFC3339Nano, it.UpdatedAt)
	o := entities.Order{
		ID:              it.ID,
		Category:        entities.OrderCategory(it.Category),
		Status:          entities.OrderStatus(it.Status),
		Quantity:        it.Quantity,
		UnitPriceCents:  it.UnitPriceCents,
		TotalPriceCents: it.TotalPriceCents,
		PaymentMethod:   entities.PaymentMethod(it.PaymentMethod),
		GatewayChargeID: it.GatewayChargeID,
		PaidAt:          parseOptionalTime(it.PaidAt),
		ConfirmedAt:     parseOptionalTime(it.ConfirmedAt),
		NextCheckAt:     parseOptionalTime(it.NextCheckAt),
		CreatedAt:       createdAt,
		UpdatedAt:       updatedAt,
	}
	if it.ResponsibleParty != nil {
		o.ResponsibleParty = &entities.ResponsibleParty{
			Name:  it.ResponsibleParty.Name,
			TaxID: it.ResponsibleParty.TaxID,
			Email: it.ResponsibleParty.Email,
			Phone: it.ResponsibleParty.Phone,
		}
	}
	for _, item := range it.Items {
		o.Items = append(o.Items, entities.OrderItem{
			ID:    item.ID,
			Name:  item.Name,
			TaxID: item.TaxID,
			Email: item.Email,
			Phone: item.Phone,
		})
	}
	return o
}

func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseOptionalTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return nil
	}
	return &t
}

func mergeNames(a, b map[string]string) map[string]string {
	if len(a) == 0 {
		return b
	}
	if len(b) == 0 {
		return a
	}
	out := make(map[string]string, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}
