package db

import (
	"context"
	"fmt"

	"github.com/influxdata/influxdb-client-go/v2/api"
)

// Catalog lists and creates databases.
type Catalog interface {
	ListDatabases(ctx context.Context) ([]string, error)
	CreateDatabase(ctx context.Context, name string) error
}

// EnsureDatabase creates the database called name unless one with exactly that
// name is already listed. It reports whether it created the database.
func EnsureDatabase(ctx context.Context, c Catalog, name string) (bool, error) {
	names, err := c.ListDatabases(ctx)
	if err != nil {
		return false, fmt.Errorf("db: failed to list databases: %w", err)
	}

	for _, n := range names {
		if n == name {
			return false, nil
		}
	}

	if err := c.CreateDatabase(ctx, name); err != nil {
		return false, fmt.Errorf("db: failed to create database %q: %w", name, err)
	}
	return true, nil
}

// Number of buckets requested per page when listing.
const pageSize = 100

// BucketCatalog is a Catalog of the buckets in one InfluxDB 2 organization.
type BucketCatalog struct {
	buckets api.BucketsAPI
	orgs    api.OrganizationsAPI
	org     string
}

func NewBucketCatalog(buckets api.BucketsAPI, orgs api.OrganizationsAPI, org string) *BucketCatalog {
	return &BucketCatalog{
		buckets: buckets,
		orgs:    orgs,
		org:     org,
	}
}

func (c *BucketCatalog) ListDatabases(ctx context.Context) ([]string, error) {
	var names []string
	for offset := 0; ; offset += pageSize {
		page, err := c.buckets.FindBucketsByOrgName(ctx, c.org, api.PagingWithLimit(pageSize), api.PagingWithOffset(offset))
		if err != nil {
			return nil, err
		}
		if page == nil {
			break
		}

		for _, b := range *page {
			names = append(names, b.Name)
		}
		if len(*page) < pageSize {
			break
		}
	}

	return names, nil
}

func (c *BucketCatalog) CreateDatabase(ctx context.Context, name string) error {
	org, err := c.orgs.FindOrganizationByName(ctx, c.org)
	if err != nil {
		return fmt.Errorf("failed to find organization %q: %w", c.org, err)
	}

	_, err = c.buckets.CreateBucketWithName(ctx, org, name)
	return err
}
