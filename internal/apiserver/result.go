// Package apiserver is the HTTP API façade of SPEC_FULL §4.11, mirroring
// the teacher's server/api + server/middle + server/token.go: a thin
// chi-routed layer over the pure internal/sentence.Parser pipeline, with
// optional bearer-token auth.
package apiserver

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ErrorResponse is the JSON body of any non-2xx response.
type ErrorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

// Result is a deferred HTTP response: handlers build one and return it so
// that logging and marshaling happen in exactly one place (httpEndpoint),
// mirroring server/result.Result.
type Result struct {
	Status      int
	IsErr       bool
	InternalMsg string

	resp interface{}
	hdrs [][2]string

	respJSONBytes []byte
}

func (r Result) WithHeader(name, val string) Result {
	r.hdrs = append(append([][2]string{}, r.hdrs...), [2]string{name, val})
	return r
}

func (r *Result) prepare() error {
	if r.respJSONBytes != nil {
		return nil
	}
	if r.Status == http.StatusNoContent {
		return nil
	}
	data, err := json.Marshal(r.resp)
	if err != nil {
		return err
	}
	r.respJSONBytes = data
	return nil
}

func (r Result) WriteResponse(w http.ResponseWriter) {
	if r.Status == 0 {
		panic("apiserver: result not populated")
	}
	if err := r.prepare(); err != nil {
		panic(fmt.Sprintf("apiserver: could not marshal response: %s", err.Error()))
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	for _, h := range r.hdrs {
		w.Header().Set(h[0], h[1])
	}
	w.WriteHeader(r.Status)
	if r.Status != http.StatusNoContent {
		w.Write(r.respJSONBytes)
	}
}

func OK(respObj interface{}, internalMsg ...interface{}) Result {
	return response(http.StatusOK, respObj, "OK", internalMsg...)
}

func Created(respObj interface{}, internalMsg ...interface{}) Result {
	return response(http.StatusCreated, respObj, "created", internalMsg...)
}

func BadRequest(userMsg string, internalMsg ...interface{}) Result {
	return errResult(http.StatusBadRequest, userMsg, "bad request", internalMsg...)
}

func NotFound(internalMsg ...interface{}) Result {
	return errResult(http.StatusNotFound, "the requested resource was not found", "not found", internalMsg...)
}

func Unauthorized(userMsg string, internalMsg ...interface{}) Result {
	if userMsg == "" {
		userMsg = "you are not authorized to do that"
	}
	return errResult(http.StatusUnauthorized, userMsg, "unauthorized", internalMsg...).
		WithHeader("WWW-Authenticate", `Bearer realm="setningar server", charset="utf-8"`)
}

func InternalServerError(internalMsg ...interface{}) Result {
	return errResult(http.StatusInternalServerError, "an internal server error occurred", "internal server error", internalMsg...)
}

func response(status int, respObj interface{}, defaultMsg string, internalMsg ...interface{}) Result {
	msg := formatMsg(defaultMsg, internalMsg)
	return Result{Status: status, InternalMsg: msg, resp: respObj}
}

func errResult(status int, userMsg, defaultMsg string, internalMsg ...interface{}) Result {
	msg := formatMsg(defaultMsg, internalMsg)
	return Result{
		Status:      status,
		IsErr:       true,
		InternalMsg: msg,
		resp:        ErrorResponse{Error: userMsg, Status: status},
	}
}

func formatMsg(defaultMsg string, args []interface{}) string {
	if len(args) == 0 {
		return defaultMsg
	}
	format, ok := args[0].(string)
	if !ok {
		return defaultMsg
	}
	return fmt.Sprintf(format, args[1:]...)
}
