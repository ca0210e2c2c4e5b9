package db

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/domain"
)

// stubCatalog is a Catalog that fails if asked to create a database that exists.
type stubCatalog struct {
	names   []string
	creates int
}

func (c *stubCatalog) ListDatabases(ctx context.Context) ([]string, error) {
	return append([]string(nil), c.names...), nil
}

func (c *stubCatalog) CreateDatabase(ctx context.Context, name string) error {
	for _, n := range c.names {
		if n == name {
			return fmt.Errorf("database %q already exists", name)
		}
	}
	c.names = append(c.names, name)
	c.creates++
	return nil
}

func TestEnsureDatabaseIdempotent(t *testing.T) {
	c := &stubCatalog{names: []string{"_monitoring", "_tasks"}}

	created, err := EnsureDatabase(context.Background(), c, "BeerBeat")
	if err != nil {
		t.Fatalf("First call: unexpected error: %v", err)
	}
	if !created {
		t.Error("First call: expected database to be created")
	}

	created, err = EnsureDatabase(context.Background(), c, "BeerBeat")
	if err != nil {
		t.Fatalf("Second call: unexpected error: %v", err)
	}
	if created {
		t.Error("Second call: expected existing database to be reused")
	}

	if c.creates != 1 {
		t.Errorf("Got %d creates, want 1", c.creates)
	}
	if diff := cmp.Diff(c.names, []string{"_monitoring", "_tasks", "BeerBeat"}); diff != "" {
		t.Errorf("Unexpected databases (-got +want):\n%s", diff)
	}
}

func TestEnsureDatabaseExactMatch(t *testing.T) {
	// Names that merely resemble the requested one don't count as a match.
	c := &stubCatalog{names: []string{"beerbeat", "BeerBeat2", " BeerBeat"}}

	created, err := EnsureDatabase(context.Background(), c, "BeerBeat")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !created {
		t.Error("Expected database to be created")
	}
}

type failingCatalog struct {
	listErr   error
	createErr error
}

func (c failingCatalog) ListDatabases(ctx context.Context) ([]string, error) {
	return nil, c.listErr
}

func (c failingCatalog) CreateDatabase(ctx context.Context, name string) error {
	return c.createErr
}

func TestEnsureDatabaseErrors(t *testing.T) {
	errList := errors.New("unauthorized")
	errCreate := errors.New("quota exceeded")

	if _, err := EnsureDatabase(context.Background(), failingCatalog{listErr: errList}, "x"); !errors.Is(err, errList) {
		t.Errorf("Got error %v, want %v", err, errList)
	}
	if _, err := EnsureDatabase(context.Background(), failingCatalog{createErr: errCreate}, "x"); !errors.Is(err, errCreate) {
		t.Errorf("Got error %v, want %v", err, errCreate)
	}
}

// fakeBuckets implements the parts of api.BucketsAPI that BucketCatalog uses.
// Calling anything else panics on the nil embedded interface.
type fakeBuckets struct {
	api.BucketsAPI

	buckets []domain.Bucket
	pages   int
	created []string
}

// FindBucketsByOrgName serves consecutive pages of pageSize buckets. Paging
// options can't be inspected from outside the api package, so the offset is
// inferred from the number of calls.
func (f *fakeBuckets) FindBucketsByOrgName(ctx context.Context, orgName string, pagingOptions ...api.PagingOption) (*[]domain.Bucket, error) {
	start := f.pages * pageSize
	f.pages++

	if start > len(f.buckets) {
		start = len(f.buckets)
	}
	end := start + pageSize
	if end > len(f.buckets) {
		end = len(f.buckets)
	}

	page := append([]domain.Bucket(nil), f.buckets[start:end]...)
	return &page, nil
}

func (f *fakeBuckets) CreateBucketWithName(ctx context.Context, org *domain.Organization, bucketName string, rules ...domain.RetentionRule) (*domain.Bucket, error) {
	f.created = append(f.created, org.Name+"/"+bucketName)
	return &domain.Bucket{Name: bucketName}, nil
}

type fakeOrgs struct {
	api.OrganizationsAPI
}

func (fakeOrgs) FindOrganizationByName(ctx context.Context, orgName string) (*domain.Organization, error) {
	if orgName != "home" {
		return nil, fmt.Errorf("organization %q not found", orgName)
	}
	return &domain.Organization{Name: orgName}, nil
}

func TestBucketCatalogPaging(t *testing.T) {
	f := &fakeBuckets{}
	var want []string
	for i := 0; i < 150; i++ {
		name := fmt.Sprintf("bucket%03d", i)
		f.buckets = append(f.buckets, domain.Bucket{Name: name})
		want = append(want, name)
	}

	c := NewBucketCatalog(f, fakeOrgs{}, "home")
	got, err := c.ListDatabases(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("Unexpected result (-got +want):\n%s", diff)
	}
	if f.pages != 2 {
		t.Errorf("Got %d pages, want 2", f.pages)
	}
}

func TestBucketCatalogCreate(t *testing.T) {
	f := &fakeBuckets{}
	c := NewBucketCatalog(f, fakeOrgs{}, "home")

	created, err := EnsureDatabase(context.Background(), c, "BeerBeat")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !created {
		t.Error("Expected database to be created")
	}
	if diff := cmp.Diff(f.created, []string{"home/BeerBeat"}); diff != "" {
		t.Errorf("Unexpected result (-got +want):\n%s", diff)
	}

	c = NewBucketCatalog(f, fakeOrgs{}, "elsewhere")
	if err := c.CreateDatabase(context.Background(), "BeerBeat"); err == nil {
		t.Error("Expected error for unknown organization, got nil")
	}
}
