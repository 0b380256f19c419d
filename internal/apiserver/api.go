package apiserver

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/fjalar/setningar/internal/cache"
	"github.com/fjalar/setningar/internal/sentence"
	"github.com/fjalar/setningar/internal/token"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"unicode"
)

// PathPrefix is the prefix of every route exposed by this API (SPEC_FULL
// §4.11).
const PathPrefix = "/api/v1"

// API holds everything needed to service requests: the parsing pipeline,
// the optional result store, and auth configuration.
type API struct {
	// Parser runs the pure match->parse->reduce->simplify pipeline.
	Parser *sentence.Parser

	// Store persists submitted jobs for later retrieval by id. May be nil,
	// in which case GET /jobs/{id} always 404s (in-memory-only mode).
	Store *cache.Store

	// Keys validates API keys presented to POST /login. May be nil, in
	// which case auth is disabled entirely (RequireLogin has no effect).
	Keys *APIKeyStore

	// Secret signs issued JWTs.
	Secret []byte

	// UnauthDelay deprioritizes 401/403/500 responses, mirroring
	// server/api.API.UnauthDelay.
	UnauthDelay time.Duration

	// RequireLogin, when true, makes every /jobs route require a valid
	// bearer token.
	RequireLogin bool

	// SyncJobThreshold is the largest sentence count for which POST /jobs
	// returns per-sentence results synchronously (SPEC_FULL §4.11); a
	// value of zero or less returns them for every job.
	SyncJobThreshold int
}

// EndpointFunc is a handler that returns a deferred Result instead of
// writing to the ResponseWriter directly, mirroring server/api.EndpointFunc.
type EndpointFunc func(req *http.Request) Result

func (api API) httpEndpoint(ep EndpointFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		defer api.panicTo500(w, req)

		r := ep(req)
		if r.Status == 0 {
			logResponse(req, http.StatusInternalServerError, "endpoint result was never populated")
			http.Error(w, "An internal server error occurred", http.StatusInternalServerError)
			return
		}

		logResponse(req, r.Status, r.InternalMsg)
		if r.Status == http.StatusUnauthorized || r.Status == http.StatusForbidden || r.Status == http.StatusInternalServerError {
			time.Sleep(api.UnauthDelay)
		}
		r.WriteResponse(w)
	}
}

func (api API) panicTo500(w http.ResponseWriter, req *http.Request) {
	if panicErr := recover(); panicErr != nil {
		InternalServerError(fmt.Sprintf("panic: %v\nSTACK TRACE: %s", panicErr, string(debug.Stack()))).WriteResponse(w)
	}
}

func logResponse(req *http.Request, status int, msg string) {
	remoteIP := strings.SplitN(req.RemoteAddr, ":", 2)[0]
	log.Printf("%s %s: HTTP-%d %s", remoteIP, req.URL.Path, status, msg)
}

// Router builds the chi router for this API, mounted at PathPrefix by the
// caller's own ServeMux (mirrors cmd/tqserver wiring a *server.TunaQuestServer
// into an http.Server).
func (api API) Router() chi.Router {
	r := chi.NewRouter()

	r.Get("/health", api.httpEndpoint(api.epHealth))
	r.Post("/login", api.httpEndpoint(api.epLogin))

	auth := OptionalAuth(api.Secret, api.UnauthDelay)
	if api.RequireLogin && api.Keys != nil {
		auth = RequireAuth(api.Secret, api.UnauthDelay)
	}

	r.Group(func(r chi.Router) {
		r.Use(auth)
		r.Post("/jobs", api.httpEndpoint(api.epCreateJob))
		r.Get("/jobs/{id}", api.httpEndpoint(api.epGetJob))
	})

	return r
}

func (api API) epHealth(req *http.Request) Result {
	return OK(map[string]string{"status": "ok"}, "health check")
}

// LoginRequest is the POST /login request body: a client id plus its API
// key.
type LoginRequest struct {
	ClientID string `json:"client_id"`
	APIKey   string `json:"api_key"`
}

// LoginResponse is the POST /login response body.
type LoginResponse struct {
	Token string `json:"token"`
}

func (api API) epLogin(req *http.Request) Result {
	if api.Keys == nil {
		return InternalServerError("API key auth is not configured on this server")
	}

	var body LoginRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return BadRequest("malformed JSON body", err.Error())
	}
	if body.ClientID == "" || body.APIKey == "" {
		return BadRequest("client_id and api_key are required")
	}
	if !api.Keys.Verify(body.ClientID, body.APIKey) {
		return Unauthorized("invalid client_id or api_key", "client %q presented an invalid key", body.ClientID)
	}

	tok, err := generateJWT(api.Secret, body.ClientID)
	if err != nil {
		return InternalServerError("could not generate JWT: " + err.Error())
	}
	return Created(LoginResponse{Token: tok}, "client %q logged in", body.ClientID)
}

// JobRequest is the POST /jobs request body: a list of sentences, already
// split and tokenized by an external tokenizer into per-sentence token
// lists. No paragraph markers are read.
type JobRequest struct {
	Sentences []JobSentenceRequest `json:"sentences"`
}

// JobSentenceRequest is one pre-tokenized sentence submitted in a job.
type JobSentenceRequest struct {
	Text   string   `json:"text"`
	Tokens []string `json:"tokens"`
}

// JobResponse is the POST /jobs response body: the job id plus,
// synchronously for small jobs, every sentence's JSON dump.
type JobResponse struct {
	ID        string               `json:"id"`
	Stats     JobStatsResponse     `json:"stats"`
	Sentences []sentence.JSONDump  `json:"sentences,omitempty"`
}

// JobStatsResponse mirrors sentence.JobStats in wire form.
type JobStatsResponse struct {
	SentenceCount int     `json:"sentence_count"`
	ParsedCount   int     `json:"parsed_count"`
	AvgAmbiguity  float64 `json:"avg_ambiguity"`
	ParseTimeMS   int64   `json:"parse_time_ms"`
}

func (api API) epCreateJob(req *http.Request) Result {
	var body JobRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return BadRequest("malformed JSON body", err.Error())
	}
	if len(body.Sentences) == 0 {
		return BadRequest("sentences: must contain at least one entry")
	}

	inputs := make([]sentence.SentenceInput, len(body.Sentences))
	for i, s := range body.Sentences {
		inputs[i] = sentence.SentenceInput{Text: s.Text, Tokens: toTokens(s.Tokens)}
	}

	job := api.Parser.RunJob(inputs)

	resp := JobResponse{
		ID: job.ID.String(),
		Stats: JobStatsResponse{
			SentenceCount: job.Stats.SentenceCount,
			ParsedCount:   job.Stats.ParsedCount,
			AvgAmbiguity:  job.Stats.AvgAmbiguity,
			ParseTimeMS:   job.Stats.ParseTime.Milliseconds(),
		},
	}

	if api.Store != nil {
		if err := api.Store.SaveJob(req.Context(), job); err != nil {
			return InternalServerError("could not save job: " + err.Error())
		}
	}

	if len(job.Sentences) <= api.SyncJobThreshold || api.SyncJobThreshold <= 0 {
		for _, s := range job.Sentences {
			resp.Sentences = append(resp.Sentences, s.Dump())
		}
	}

	return Created(resp, "job %s: %d/%d sentences parsed", job.ID, job.Stats.ParsedCount, job.Stats.SentenceCount)
}

func (api API) epGetJob(req *http.Request) Result {
	if api.Store == nil {
		return NotFound("job store is not configured on this server")
	}

	idStr := chi.URLParam(req, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		return BadRequest("id: not a valid UUID")
	}

	job, err := api.Store.GetJob(req.Context(), id)
	if err != nil {
		if err == cache.ErrNotFound {
			return NotFound()
		}
		return InternalServerError("could not fetch job: " + err.Error())
	}

	resp := struct {
		ID        string                `json:"id"`
		Stats     JobStatsResponse      `json:"stats"`
		Sentences []cache.StoredSentence `json:"sentences"`
	}{
		ID: job.ID.String(),
		Stats: JobStatsResponse{
			SentenceCount: job.SentenceCount,
			ParsedCount:   job.ParsedCount,
			AvgAmbiguity:  job.AvgAmbiguity,
			ParseTimeMS:   job.ParseTime.Milliseconds(),
		},
		Sentences: job.Sentences,
	}
	return OK(resp, "fetched job %s", job.ID)
}

// toTokens converts the wire-format token strings into []token.Token,
// classifying each as a word or punctuation by its leading rune. Any
// richer tokenization (numbers, dates, entities) is the external
// tokenizer's job per spec.md §1; callers that need those kinds should
// submit already-typed tokens through the in-process sentence.Parser API
// instead of this HTTP endpoint.
func toTokens(forms []string) []token.Token {
	out := make([]token.Token, len(forms))
	for i, f := range forms {
		kind := token.KindPunctuation
		if f != "" && unicode.IsLetter([]rune(f)[0]) {
			kind = token.KindWord
		}
		out[i] = token.New(kind, f, i)
	}
	return out
}
