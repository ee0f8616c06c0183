package inmemory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dvloznov/finance-keeper/internal/jobs"
)

func TestStoreFiltersByUser(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	for _, j := range []*jobs.ExportRecordsJob{
		{JobID: "j1", UserID: "u1", Status: jobs.JobStatusPending},
		{JobID: "j2", UserID: "u2", Status: jobs.JobStatusPending},
		{JobID: "j3", UserID: "u1", Status: jobs.JobStatusCompleted},
	} {
		if err := s.SaveJob(ctx, j); err != nil {
			t.Fatalf("SaveJob: %v", err)
		}
	}

	got, err := s.ListJobs(ctx, jobs.JobFilter{UserID: "u1"})
	if err != nil {
		t.Fatalf("ListJobs: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("got %d jobs for u1, want 2", len(got))
	}

	got, err = s.ListJobs(ctx, jobs.JobFilter{UserID: "u1", Status: jobs.JobStatusCompleted})
	if err != nil {
		t.Fatalf("ListJobs: %v", err)
	}
	if len(got) != 1 || got[0].JobID != "j3" {
		t.Errorf("status filter = %+v", got)
	}
}

func TestStoreReturnsCopies(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	if err := s.SaveJob(ctx, &jobs.ExportRecordsJob{JobID: "j1", UserID: "u1"}); err != nil {
		t.Fatalf("SaveJob: %v", err)
	}

	got, err := s.GetJob(ctx, "j1")
	if err != nil {
		t.Fatalf("GetJob: %v", err)
	}
	got.UserID = "tampered"

	again, err := s.GetJob(ctx, "j1")
	if err != nil {
		t.Fatalf("GetJob: %v", err)
	}
	if again.UserID != "u1" {
		t.Error("store leaked internal state to callers")
	}
}

func TestQueueProcessesJob(t *testing.T) {
	s := NewStore()
	q := NewQueue(4, s)
	ctx := context.Background()

	var mu sync.Mutex
	handled := make(map[string]int)
	done := make(chan struct{})

	err := q.Start(ctx, func(ctx context.Context, j jobs.Job) error {
		mu.Lock()
		handled[j.GetID()]++
		mu.Unlock()
		close(done)
		return nil
	})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	job := &jobs.ExportRecordsJob{UserID: "u1", Bucket: "b", ObjectName: "o.csv"}
	if err := q.PublishExportRecords(ctx, job); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if job.JobID == "" {
		t.Error("publish must assign a job ID")
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job never handled")
	}

	// The completion write races the handler return; poll the store briefly.
	deadline := time.Now().Add(2 * time.Second)
	for {
		saved, err := s.GetJob(ctx, job.JobID)
		if err != nil {
			t.Fatalf("GetJob: %v", err)
		}
		if saved.Status == jobs.JobStatusCompleted {
			if saved.CompletedAt == nil {
				t.Error("completed job missing CompletedAt")
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("job status = %s, want completed", saved.Status)
		}
		time.Sleep(10 * time.Millisecond)
	}

	if err := q.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
}

func TestQueueRetriesFailedJob(t *testing.T) {
	s := NewStore()
	q := NewQueue(4, s)
	ctx := context.Background()

	var mu sync.Mutex
	attempts := 0
	done := make(chan struct{})

	err := q.Start(ctx, func(ctx context.Context, j jobs.Job) error {
		mu.Lock()
		defer mu.Unlock()
		attempts++
		if attempts == 1 {
			return errors.New("transient")
		}
		select {
		case <-done:
		default:
			close(done)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	job := &jobs.ExportRecordsJob{UserID: "u1", Bucket: "b", ObjectName: "o.csv", MaxRetries: 2}
	if err := q.PublishExportRecords(ctx, job); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("retry never ran")
	}

	mu.Lock()
	got := attempts
	mu.Unlock()
	if got < 2 {
		t.Errorf("attempts = %d, want >= 2", got)
	}

	_ = q.Stop(ctx)
}

func TestPublishAfterCloseFails(t *testing.T) {
	q := NewQueue(1, nil)
	if err := q.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	err := q.PublishExportRecords(context.Background(), &jobs.ExportRecordsJob{UserID: "u1"})
	if err == nil {
		t.Error("publish on closed queue must fail")
	}
}
