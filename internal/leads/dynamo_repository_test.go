package leads

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// fakeDynamo keeps items in a map keyed by the phone attribute.
type fakeDynamo struct {
	items map[string]map[string]types.AttributeValue
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{items: make(map[string]map[string]types.AttributeValue)}
}

func phoneOf(key map[string]types.AttributeValue) string {
	if v, ok := key["phone"].(*types.AttributeValueMemberS); ok {
		return v.Value
	}
	return ""
}

func (f *fakeDynamo) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	return &dynamodb.GetItemOutput{Item: f.items[phoneOf(in.Key)]}, nil
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.items[phoneOf(in.Item)] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) DeleteItem(_ context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	delete(f.items, phoneOf(in.Key))
	return &dynamodb.DeleteItemOutput{}, nil
}

func (f *fakeDynamo) Scan(_ context.Context, _ *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	out := &dynamodb.ScanOutput{}
	for _, item := range f.items {
		out.Items = append(out.Items, item)
	}
	return out, nil
}

func TestDynamoRoundTrip(t *testing.T) {
	repo := NewDynamoRepository(newFakeDynamo(), "volky_leads")
	ctx := context.Background()

	lead, err := repo.GetOrCreate(ctx, "52331")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if lead.Name != "" {
		t.Errorf("fresh lead should be empty, got %+v", lead)
	}

	if _, err := repo.Update(ctx, "52331", Update{Name: String("Ana"), TargetModel: String("TAOS 2025")}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err := repo.Get(ctx, "52331")
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Ana" || got.TargetModel != "TAOS 2025" {
		t.Errorf("unexpected lead after update: %+v", got)
	}

	all, err := repo.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 {
		t.Errorf("expected 1 lead, got %d", len(all))
	}

	if err := repo.Delete(ctx, "52331"); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.Get(ctx, "52331"); err != ErrLeadNotFound {
		t.Errorf("expected ErrLeadNotFound after delete, got %v", err)
	}
}
