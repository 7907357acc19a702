package apperrors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestClassify_PassthroughAppError(t *testing.T) {
	orig := Conflict("User already exists")

	got := Classify(orig)
	assert.Same(t, orig, got)

	wrapped := fmt.Errorf("create user: %w", orig)
	got = Classify(wrapped)
	assert.Same(t, orig, got)
}

func TestClassify_UniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "users_user_name_key"}

	got := Classify(pgErr)
	assert.Equal(t, http.StatusConflict, got.StatusCode)
	assert.Equal(t, CodeConflict, got.Code)
	assert.Equal(t, "User already exists", got.Message)
	assert.Equal(t, "users_user_name_key", got.Field)
	assert.True(t, got.Operational)
}

func TestClassify_DataException(t *testing.T) {
	// 22P02 invalid_text_representation, e.g. a malformed uuid literal
	pgErr := &pgconn.PgError{Code: "22P02", ColumnName: "user_id"}

	got := Classify(pgErr)
	assert.Equal(t, http.StatusBadRequest, got.StatusCode)
	assert.Equal(t, CodeValidation, got.Code)
	assert.Equal(t, "user_id", got.Field)
	assert.True(t, got.Operational)
}

func TestClassify_TokenErrors(t *testing.T) {
	tokenErrs := []error{
		jwtlib.ErrTokenMalformed,
		jwtlib.ErrTokenSignatureInvalid,
		jwtlib.ErrTokenExpired,
		jwtlib.ErrTokenInvalidIssuer,
		fmt.Errorf("parse: %w", jwtlib.ErrTokenExpired),
	}

	for _, err := range tokenErrs {
		got := Classify(err)
		assert.Equal(t, http.StatusUnauthorized, got.StatusCode, "err: %v", err)
		assert.Equal(t, "Invalid token. Please log in again!", got.Message)
		assert.True(t, got.Operational)
	}
}

func TestClassify_DeadlineExceeded(t *testing.T) {
	got := Classify(fmt.Errorf("query users: %w", context.DeadlineExceeded))
	assert.Equal(t, http.StatusServiceUnavailable, got.StatusCode)
	assert.Equal(t, CodeTimeout, got.Code)
	assert.True(t, got.Operational)
}

func TestClassify_Unknown(t *testing.T) {
	got := Classify(errors.New("nil pointer somewhere"))
	assert.Equal(t, http.StatusInternalServerError, got.StatusCode)
	assert.Equal(t, CodeUnknown, got.Code)
	assert.False(t, got.Operational)
}

func TestWrite_OperationalProduction(t *testing.T) {
	rec := httptest.NewRecorder()

	Write(rec, Validation("Please provide all fields"), false)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp Response
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "fail", resp.Status)
	assert.Equal(t, "Please provide all fields", resp.Message)
	assert.Empty(t, resp.ErrorDetail)
	assert.Empty(t, resp.Stack)
}

func TestWrite_UnknownProduction_NoLeak(t *testing.T) {
	rec := httptest.NewRecorder()

	Write(rec, errors.New("secret internal detail"), false)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp Response
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, "Something went very wrong!", resp.Message)
	assert.NotContains(t, rec.Body.String(), "secret internal detail")
}

func TestWrite_UnknownDevelopment_EchoesDetail(t *testing.T) {
	rec := httptest.NewRecorder()

	Write(rec, errors.New("boom from handler"), true)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp Response
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.ErrorDetail, "boom from handler")
	assert.NotEmpty(t, resp.Stack)
}

func TestWrite_StatusWord(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus string
		wantCode   int
	}{
		{Validation("bad"), "fail", 400},
		{Authentication("nope"), "fail", 401},
		{NotFound("gone"), "fail", 404},
		{Conflict("dup"), "fail", 409},
		{Persistence(errors.New("db")), "error", 500},
		{Timeout(context.DeadlineExceeded), "error", 503},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		Write(rec, tt.err, false)

		var resp Response
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, tt.wantCode, rec.Code)
		assert.Equal(t, tt.wantStatus, resp.Status)
	}
}
