// Package remote implements the persistence port on Cloud Firestore: one
// document per expense, ids assigned by the collection, ordering pushed to
// the query.
package remote

import (
	"context"
	"fmt"
	"math"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"chitieu/internal/core"
	"chitieu/internal/store"
)

// expenseDoc is the wire form of a stored expense. The document id lives
// outside the fields.
type expenseDoc struct {
	Description string  `firestore:"description"`
	Amount      float64 `firestore:"amount"`
	Category    string  `firestore:"category"`
	Date        string  `firestore:"date"`
}

type Store struct {
	client     *firestore.Client
	collection string
}

// New connects to Firestore. Construction is fallible; callers decide
// whether to fall back to the local variant.
func New(ctx context.Context, projectID, credentialsFile, collection string) (*Store, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("init firestore client: %w", err)
	}
	return &Store{client: client, collection: collection}, nil
}

// Unconfigured returns a store whose every operation fails with
// store.ErrUnavailable. It stands in when initialization failed but a port
// value is still needed.
func Unconfigured() *Store {
	return &Store{}
}

func (s *Store) List(ctx context.Context) ([]core.Expense, error) {
	if s.client == nil {
		return nil, fmt.Errorf("%w: firestore not configured", store.ErrUnavailable)
	}

	iter := s.client.Collection(s.collection).OrderBy("date", firestore.Desc).Documents(ctx)
	defer iter.Stop()

	var expenses []core.Expense
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
		}

		var doc expenseDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("%w: document %s: %v", store.ErrReadFailure, snap.Ref.ID, err)
		}
		expense, err := doc.toExpense(snap.Ref.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: document %s: %v", store.ErrReadFailure, snap.Ref.ID, err)
		}
		expenses = append(expenses, expense)
	}
	return expenses, nil
}

func (s *Store) Create(ctx context.Context, draft core.Expense) (string, error) {
	if s.client == nil {
		return "", fmt.Errorf("%w: firestore not configured", store.ErrUnavailable)
	}

	ref, _, err := s.client.Collection(s.collection).Add(ctx, expenseDoc{
		Description: draft.Description,
		Amount:      draft.Amount.Units(),
		Category:    string(draft.Category),
		Date:        draft.Date.ISO(),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", store.ErrWriteFailure, err)
	}
	return ref.ID, nil
}

// Delete removes the document with the given id. Firestore treats deleting
// an absent document as success, which matches the port contract.
func (s *Store) Delete(ctx context.Context, id string) error {
	if s.client == nil {
		return fmt.Errorf("%w: firestore not configured", store.ErrUnavailable)
	}

	if _, err := s.client.Collection(s.collection).Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("%w: %v", store.ErrWriteFailure, err)
	}
	return nil
}

func (s *Store) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

func (d expenseDoc) toExpense(id string) (core.Expense, error) {
	date, err := core.ParseDate(d.Date)
	if err != nil {
		return core.Expense{}, err
	}
	category := core.Category(d.Category)
	if !category.Valid() {
		return core.Expense{}, fmt.Errorf("unknown category %q", d.Category)
	}
	amount := core.Money{Cents: int64(math.Round(d.Amount * 100))}
	if err := amount.Validate(); err != nil {
		return core.Expense{}, err
	}
	return core.Expense{
		ID:          id,
		Description: d.Description,
		Amount:      amount,
		Category:    category,
		Date:        date,
	}, nil
}
