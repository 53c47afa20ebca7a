package middleware

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"connectrpc.com/connect"
	"github.com/go-playground/validator/v10"

	"github.com/mmynk/splitledger/internal/ledger"
)

// ValidationInterceptor checks the `validate` struct tags of every request
// message and answers InvalidArgument before the handler runs.
func ValidationInterceptor() connect.UnaryInterceptorFunc {
	v := validator.New(validator.WithRequiredStructEnabled())
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if err := v.Struct(req.Any()); err != nil {
				return nil, connect.NewError(connect.CodeInvalidArgument, validationError(err))
			}
			return next(ctx, req)
		}
	}
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ledger.ErrInvalidData, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		msgs = append(msgs, fmt.Sprintf("%s fails %s", fe.Namespace(), rule))
	}
	return fmt.Errorf("%w: %s", ledger.ErrInvalidData, strings.Join(msgs, "; "))
}
