package graphql

import (
	"github.com/graphql-go/graphql/gqlerrors"
)

func graphqlErrors(err error) []gqlerrors.FormattedError {
	return []gqlerrors.FormattedError{gqlerrors.FormatError(err)}
}
