/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/suparena/logreport/datastore"
	"github.com/suparena/logreport/errors"
	"github.com/suparena/logreport/storagemodels"
)

// fakeDDB records writes and serves scans from fixed pages.
type fakeDDB struct {
	puts       []*sdk.PutItemInput
	deletes    []*sdk.DeleteItemInput
	getItem    map[string]types.AttributeValue
	getInputs  []*sdk.GetItemInput
	scanPages  [][]map[string]types.AttributeValue
	scanInputs []*sdk.ScanInput
	queryPages [][]map[string]types.AttributeValue
	queryIns   []*sdk.QueryInput
}

func (f *fakeDDB) GetItem(ctx context.Context, in *sdk.GetItemInput, _ ...func(*sdk.Options)) (*sdk.GetItemOutput, error) {
	f.getInputs = append(f.getInputs, in)
	return &sdk.GetItemOutput{Item: f.getItem}, nil
}

func (f *fakeDDB) PutItem(ctx context.Context, in *sdk.PutItemInput, _ ...func(*sdk.Options)) (*sdk.PutItemOutput, error) {
	f.puts = append(f.puts, in)
	return &sdk.PutItemOutput{}, nil
}

func (f *fakeDDB) DeleteItem(ctx context.Context, in *sdk.DeleteItemInput, _ ...func(*sdk.Options)) (*sdk.DeleteItemOutput, error) {
	f.deletes = append(f.deletes, in)
	return &sdk.DeleteItemOutput{}, nil
}

func (f *fakeDDB) Scan(ctx context.Context, in *sdk.ScanInput, _ ...func(*sdk.Options)) (*sdk.ScanOutput, error) {
	f.scanInputs = append(f.scanInputs, in)
	page := len(f.scanInputs) - 1
	out := &sdk.ScanOutput{Items: f.scanPages[page]}
	if page+1 < len(f.scanPages) {
		out.LastEvaluatedKey = map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: "cursor"},
		}
	}
	return out, nil
}

func (f *fakeDDB) Query(ctx context.Context, in *sdk.QueryInput, _ ...func(*sdk.Options)) (*sdk.QueryOutput, error) {
	f.queryIns = append(f.queryIns, in)
	page := len(f.queryIns) - 1
	out := &sdk.QueryOutput{Items: f.queryPages[page]}
	if page+1 < len(f.queryPages) {
		out.LastEvaluatedKey = map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: "cursor"},
		}
	}
	return out, nil
}

func sampleEvent() storagemodels.NormalizedEvent {
	return storagemodels.NormalizedEvent{
		EventType:          "User Created",
		ActorDisplayName:   "Jane Doe",
		ActorAlternateID:   "jane@x.com",
		ActorType:          "System",
		TargetDisplayName1: "App1",
		TargetDisplayName2: storagemodels.NotApplicable,
		TargetDisplayName3: storagemodels.NotApplicable,
		OutcomeResult:      "SUCCESS",
		Published:          "2024-01-05T10:00:01Z",
	}
}

func attrS(t *testing.T, item map[string]types.AttributeValue, name string) string {
	t.Helper()
	v, ok := item[name].(*types.AttributeValueMemberS)
	if !ok {
		t.Fatalf("attribute %s missing or not a string: %#v", name, item[name])
	}
	return v.Value
}

func TestExpandMacros(t *testing.T) {
	expanded, err := expandMacros(EventIndexMap, sampleEvent())
	if err != nil {
		t.Fatalf("expandMacros failed: %v", err)
	}

	if expanded["PK"] != "EVENT#User Created" {
		t.Errorf("Expected PK 'EVENT#User Created', got %q", expanded["PK"])
	}
	if expanded["SK"] != "2024-01-05T10:00:01Z#jane@x.com#App1#not applicable#not applicable#SUCCESS" {
		t.Errorf("Expected SK '2024-01-05T10:00:01Z#jane@x.com#App1#not applicable#not applicable#SUCCESS', got %q", expanded["SK"])
	}
}

func TestExpandMacrosUnknownField(t *testing.T) {
	expanded, err := expandMacros(map[string]string{"PK": "X#{nope}"}, sampleEvent())
	if err != nil {
		t.Fatalf("expandMacros failed: %v", err)
	}
	if expanded["PK"] != "X#" {
		t.Errorf("Unknown macro should expand to empty, got %q", expanded["PK"])
	}
}

func TestKeyOf(t *testing.T) {
	key, err := KeyOf(sampleEvent())
	if err != nil {
		t.Fatalf("KeyOf failed: %v", err)
	}
	if key != "EVENT#User Created|2024-01-05T10:00:01Z#jane@x.com#App1#not applicable#not applicable#SUCCESS" {
		t.Errorf("Unexpected key %q", key)
	}

	type unregistered struct{ ID string }
	if _, err := KeyOf(unregistered{ID: "1"}); err != errors.ErrNoIndexMap {
		t.Errorf("Expected ErrNoIndexMap, got %v", err)
	}
}

func TestPutAddsKeysAndEntityType(t *testing.T) {
	api := &fakeDDB{}
	store := NewFromClient[storagemodels.NormalizedEvent](api, "events", nil)

	if err := store.Put(context.Background(), sampleEvent()); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if len(api.puts) != 1 {
		t.Fatalf("Expected 1 PutItem call, got %d", len(api.puts))
	}

	in := api.puts[0]
	if aws.ToString(in.TableName) != "events" {
		t.Errorf("Expected table events, got %q", aws.ToString(in.TableName))
	}
	if got := attrS(t, in.Item, "PK"); got != "EVENT#User Created" {
		t.Errorf("Unexpected PK %q", got)
	}
	if got := attrS(t, in.Item, "EntityType"); got != "NormalizedEvent" {
		t.Errorf("Unexpected EntityType %q", got)
	}
	if got := attrS(t, in.Item, "target_display_name2"); got != storagemodels.NotApplicable {
		t.Errorf("Unexpected target_display_name2 %q", got)
	}
}

func TestPutEmptyFieldsAndUnregisteredType(t *testing.T) {
	api := &fakeDDB{}
	store := NewFromClient[storagemodels.NormalizedEvent](api, "events", nil)

	ev := sampleEvent()
	ev.Published = ""
	ev.ActorAlternateID = ""
	// SK still expands to a non-empty string; only a fully empty template fails
	if err := store.Put(context.Background(), ev); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	type bare struct {
		ID string `dynamodbav:"id"`
	}
	other := NewFromClient[bare](api, "events", nil)
	if err := other.Put(context.Background(), bare{ID: "1"}); err != errors.ErrNoIndexMap {
		t.Errorf("Expected ErrNoIndexMap, got %v", err)
	}
}

func TestGetOneSplitsKey(t *testing.T) {
	item, err := attributevalue.MarshalMap(sampleEvent())
	if err != nil {
		t.Fatal(err)
	}
	api := &fakeDDB{getItem: item}
	store := NewFromClient[storagemodels.NormalizedEvent](api, "events", nil)

	got, err := store.GetOne(context.Background(), "EVENT#User Created|2024-01-05T10:00:01Z#jane@x.com#App1#not applicable#not applicable#SUCCESS")
	if err != nil {
		t.Fatalf("GetOne failed: %v", err)
	}
	if *got != sampleEvent() {
		t.Errorf("Unexpected event %+v", got)
	}
	if got := attrS(t, api.getInputs[0].Key, "SK"); got != "2024-01-05T10:00:01Z#jane@x.com#App1#not applicable#not applicable#SUCCESS" {
		t.Errorf("Unexpected SK %q", got)
	}

	if _, err := store.GetOne(context.Background(), "no-separator"); !errors.IsValidationError(err) {
		t.Errorf("Expected validation error, got %v", err)
	}
}

func TestGetOneNotFound(t *testing.T) {
	store := NewFromClient[storagemodels.NormalizedEvent](&fakeDDB{}, "events", nil)

	_, err := store.GetOne(context.Background(), "a|b")
	if !errors.IsNotFound(err) {
		t.Errorf("Expected not found, got %v", err)
	}
}

func TestScanFollowsPagesAndFilters(t *testing.T) {
	first, _ := attributevalue.MarshalMap(sampleEvent())
	second := sampleEvent()
	second.ActorAlternateID = "john@x.com"
	secondItem, _ := attributevalue.MarshalMap(second)

	api := &fakeDDB{scanPages: [][]map[string]types.AttributeValue{{first}, {secondItem}}}
	store := NewFromClient[storagemodels.NormalizedEvent](api, "events", nil)

	events, err := store.Scan(context.Background(), EventTypeScan("User Created"))
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(events))
	}
	if events[1].ActorAlternateID != "john@x.com" {
		t.Errorf("Unexpected second event %+v", events[1])
	}

	if len(api.scanInputs) != 2 {
		t.Fatalf("Expected 2 scan calls, got %d", len(api.scanInputs))
	}
	in := api.scanInputs[0]
	if aws.ToString(in.FilterExpression) != "#t = :t" {
		t.Errorf("Unexpected filter %q", aws.ToString(in.FilterExpression))
	}
	if in.ExpressionAttributeNames["#t"] != "event_type" {
		t.Errorf("Unexpected names %v", in.ExpressionAttributeNames)
	}
	if got := attrS(t, in.ExpressionAttributeValues, ":t"); got != "User Created" {
		t.Errorf("Unexpected value %q", got)
	}
	if api.scanInputs[1].ExclusiveStartKey == nil {
		t.Error("Second page should carry ExclusiveStartKey")
	}
}

func TestDelete(t *testing.T) {
	api := &fakeDDB{}
	store := NewFromClient[storagemodels.NormalizedEvent](api, "events", nil)

	if err := store.Delete(context.Background(), "EVENT#User Created|x"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if got := attrS(t, api.deletes[0].Key, "PK"); got != "EVENT#User Created" {
		t.Errorf("Unexpected PK %q", got)
	}
	if err := store.Delete(context.Background(), "|x"); err == nil {
		t.Error("Expected error for empty PK")
	}
}

func TestQueryEventRange(t *testing.T) {
	item, _ := attributevalue.MarshalMap(sampleEvent())
	api := &fakeDDB{queryPages: [][]map[string]types.AttributeValue{{item}, {item}}}
	store := NewFromClient[storagemodels.NormalizedEvent](api, "events", nil)

	events, err := store.Query(context.Background(), EventRange("User Created", "2024-01-01", "2024-01-31"))
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(events))
	}

	in := api.queryIns[0]
	if got := aws.ToString(in.KeyConditionExpression); got != "#pk = :pk AND #sk BETWEEN :from AND :to" {
		t.Errorf("Unexpected key condition %q", got)
	}
	if got := attrS(t, in.ExpressionAttributeValues, ":pk"); got != "EVENT#User Created" {
		t.Errorf("Unexpected PK %q", got)
	}
	if got := attrS(t, in.ExpressionAttributeValues, ":to"); got != "2024-01-31~" {
		t.Errorf("Unexpected upper bound %q", got)
	}
	if in.ExpressionAttributeNames["#sk"] != "SK" || !aws.ToBool(in.ScanIndexForward) {
		t.Errorf("Unexpected query input %+v", in)
	}
	if api.queryIns[1].ExclusiveStartKey == nil {
		t.Error("Second page should carry ExclusiveStartKey")
	}
}

func TestBuildQueryInput(t *testing.T) {
	store := NewFromClient[storagemodels.NormalizedEvent](&fakeDDB{}, "events", nil)

	tests := []struct {
		name   string
		params *datastore.QueryParams
		want   string
	}{
		{"partition only", EventRange("User Created", "", ""), "#pk = :pk"},
		{"lower bound", EventRange("User Created", "2024-01-01", ""), "#pk = :pk AND #sk >= :from"},
		{"upper bound", EventRange("User Created", "", "2024-01-31"), "#pk = :pk AND #sk <= :to"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, err := store.buildQueryInput(tt.params)
			if err != nil {
				t.Fatalf("buildQueryInput failed: %v", err)
			}
			if got := aws.ToString(in.KeyConditionExpression); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}

	desc, err := store.buildQueryInput(&datastore.QueryParams{PartitionKey: "p", Descending: true})
	if err != nil || aws.ToBool(desc.ScanIndexForward) {
		t.Errorf("Descending should disable ScanIndexForward, got %v %v", desc, err)
	}
	if _, err := store.buildQueryInput(&datastore.QueryParams{}); !errors.IsValidationError(err) {
		t.Errorf("Expected validation error, got %v", err)
	}
}
