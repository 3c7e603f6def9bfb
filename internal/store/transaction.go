package store

import (
	"context"
	"strings"
)

// RunInTransaction runs fn inside a multi-document transaction when the
// backing deployment supports them (a replica set or sharded cluster), per
// spec.md §4.3: "where the store supports multi-document transactions, V
// wraps updates in one". Against a standalone mongod, the common case for
// local development, transactions are unsupported and fn simply runs
// against ctx directly. Either way correctness does not depend on this: the
// vote coordinator's per-judge lock is what spec.md §4.3 actually requires;
// the transaction is the belt for deployments that can afford it.
func (s *Store) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	sess, err := s.client.StartSession()
	if err != nil {
		return fn(ctx)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc context.Context) (any, error) {
		return nil, fn(sc)
	})
	if err != nil && transactionsUnsupported(err) {
		return fn(ctx)
	}
	return err
}

func transactionsUnsupported(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "Transaction numbers") ||
		strings.Contains(msg, "IllegalOperation") ||
		strings.Contains(msg, "not supported")
}
