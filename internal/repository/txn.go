package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
)

// Txn runs a function inside one commit scope. The answer-submission path
// uses it to make the log append and the state update stand or fall
// together.
type Txn interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type mongoTxn struct {
	client *mongo.Client
}

func NewTxn(client *mongo.Client) Txn {
	return &mongoTxn{client: client}
}

func (t *mongoTxn) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := t.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		return nil, fn(sessCtx)
	})
	return err
}
