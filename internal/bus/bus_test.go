package bus

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestMemoryBus_PublishReachesAllSubscribers(t *testing.T) {
	b := NewMemoryBus(nil)
	defer b.Close()
	ctx := context.Background()

	var mu sync.Mutex
	var got []string

	for _, name := range []string{"first", "second"} {
		name := name
		err := b.Subscribe(ctx, TopicSearchPerformed, func(_ context.Context, event Event) error {
			mu.Lock()
			got = append(got, name+":"+event.Type)
			mu.Unlock()
			return nil
		})
		if err != nil {
			t.Fatalf("Subscribe: %v", err)
		}
	}

	event := NewEvent("evt-1", "search.performed", "test", SearchEvent{Owner: "octo", Repo: "kit", Results: 3})
	if err := b.Publish(ctx, TopicSearchPerformed, event); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	if !b.DrainTimeout(time.Second) {
		t.Fatal("handlers did not drain")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 2 {
		t.Fatalf("got %d handler invocations, want 2", len(got))
	}
}

func TestMemoryBus_PublishWithoutSubscribersIsNoError(t *testing.T) {
	b := NewMemoryBus(nil)
	defer b.Close()

	if err := b.Publish(context.Background(), TopicIssuesLoaded, NewEvent("evt-1", "issues.loaded", "test", nil)); err != nil {
		t.Errorf("Publish with no subscribers returned %v", err)
	}
}

func TestMemoryBus_TopicsAreIsolated(t *testing.T) {
	b := NewMemoryBus(nil)
	defer b.Close()
	ctx := context.Background()

	called := make(chan string, 2)
	if err := b.Subscribe(ctx, TopicIssuesLoaded, func(context.Context, Event) error {
		called <- TopicIssuesLoaded
		return nil
	}); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	if err := b.Publish(ctx, TopicSearchPerformed, NewEvent("evt-1", "search.performed", "test", nil)); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	b.DrainTimeout(time.Second)

	select {
	case topic := <-called:
		t.Errorf("handler for %s fired on a different topic", topic)
	default:
	}
}

func TestMemoryBus_ClosedBusRejectsOperations(t *testing.T) {
	b := NewMemoryBus(nil)
	if err := b.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	ctx := context.Background()
	if err := b.Publish(ctx, TopicSearchPerformed, Event{}); err == nil {
		t.Error("Publish on a closed bus must fail")
	}
	if err := b.Subscribe(ctx, TopicSearchPerformed, func(context.Context, Event) error { return nil }); err == nil {
		t.Error("Subscribe on a closed bus must fail")
	}
}

func TestMemoryBus_HandlerErrorDoesNotFailPublish(t *testing.T) {
	b := NewMemoryBus(nil)
	defer b.Close()
	ctx := context.Background()

	if err := b.Subscribe(ctx, TopicSearchPerformed, func(context.Context, Event) error {
		return context.DeadlineExceeded
	}); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	if err := b.Publish(ctx, TopicSearchPerformed, NewEvent("evt-1", "search.performed", "test", nil)); err != nil {
		t.Errorf("Publish returned handler error: %v", err)
	}
	b.DrainTimeout(time.Second)
}

func TestNewKafkaBus_ValidatesConfig(t *testing.T) {
	if _, err := NewKafkaBus(KafkaConfig{}, nil); err == nil {
		t.Error("empty brokers must be rejected")
	}
	if _, err := NewKafkaBus(KafkaConfig{Brokers: []string{"localhost:9092"}}, nil); err == nil {
		t.Error("empty consumer group must be rejected")
	}
}

func TestParseKafkaBrokers(t *testing.T) {
	got := ParseKafkaBrokers(" a:9092 , b:9092 ")
	if len(got) != 2 || got[0] != "a:9092" || got[1] != "b:9092" {
		t.Errorf("ParseKafkaBrokers = %v", got)
	}
	if ParseKafkaBrokers("") != nil {
		t.Error("empty broker string must parse to nil")
	}
}
