package requestdata

import (
	"context"

	"github.com/google/uuid"
)

// Role values are trusted verbatim from the identity provider; the core only
// performs capability checks against them.
const (
	RoleLearner    = "learner"
	RoleInstructor = "instructor"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

type RequestData struct {
	TokenString string
	UserID      uuid.UUID
	Role        string
}

// CanAuthor reports whether the caller may mutate authored content.
func (rd *RequestData) CanAuthor() bool {
	if rd == nil {
		return false
	}
	switch rd.Role {
	case RoleInstructor, RoleAdmin, RoleSuperAdmin:
		return true
	default:
		return false
	}
}

// CanGrade reports whether the caller may grade submissions.
func (rd *RequestData) CanGrade() bool {
	return rd.CanAuthor()
}

// CanLearn reports whether the caller may enroll and take assessments.
func (rd *RequestData) CanLearn() bool {
	return rd != nil && rd.UserID != uuid.Nil
}

type requestDataKeyType struct{}

var requestDataKey = requestDataKeyType{}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	if rd, ok := ctx.Value(requestDataKey).(*RequestData); ok {
		return rd
	}
	return nil
}
