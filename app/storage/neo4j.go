package storage

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Neo4jStorage keeps one (:Entry {key, value}) node per key.
type Neo4jStorage struct {
	driver neo4j.DriverWithContext
}

// NewNeo4jStorage creates a new instance of Neo4jStorage.
func NewNeo4jStorage(driver neo4j.DriverWithContext) *Neo4jStorage {
	return &Neo4jStorage{driver: driver}
}

// Get retrieves the value of the entry node for key.
func (s *Neo4jStorage) Get(ctx context.Context, key string) (string, bool, error) {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx,
			"MATCH (e:Entry {key: $key}) RETURN e.value AS value",
			map[string]any{"key": key},
		)
		if err != nil {
			return nil, err
		}

		if res.Next(ctx) {
			value, ok := res.Record().Values[0].(string)
			if !ok {
				return nil, fmt.Errorf("entry %q has a non-string value", key)
			}
			return &value, nil
		}

		// Check for any errors during iteration
		if err := res.Err(); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		return "", false, fmt.Errorf("neo4j get %q: %w", key, err)
	}

	value, _ := result.(*string)
	if value == nil {
		return "", false, nil
	}
	return *value, true, nil
}

// Set creates or overwrites the entry node for key.
func (s *Neo4jStorage) Set(ctx context.Context, key, value string) error {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx,
			"MERGE (e:Entry {key: $key}) SET e.value = $value",
			map[string]any{
				"key":   key,
				"value": value,
			},
		)
		return nil, err
	})
	if err != nil {
		return fmt.Errorf("neo4j set %q: %w", key, err)
	}
	return nil
}

// Remove deletes the entry node for key and its relationships.
func (s *Neo4jStorage) Remove(ctx context.Context, key string) error {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx,
			"MATCH (e:Entry {key: $key}) DETACH DELETE e",
			map[string]any{"key": key},
		)
		return nil, err
	})
	if err != nil {
		return fmt.Errorf("neo4j remove %q: %w", key, err)
	}
	return nil
}

// Close closes the underlying driver.
func (s *Neo4jStorage) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}
