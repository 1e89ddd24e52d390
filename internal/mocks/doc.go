// Package mocks provides function-field mocks of the service and auth
// interfaces for handler and middleware tests.
//
// Each mock method calls its Fn field when set and otherwise returns the
// mock's default values:
//
//	jwtService := &mocks.MockJWTService{
//	    GenerateTokenFn: func(ctx context.Context, userID uuid.UUID) (string, error) {
//	        return "mocked-token", nil
//	    },
//	}
package mocks
