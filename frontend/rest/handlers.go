// Copyright 2025 NetApp, Inc. All Rights Reserved.

package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/netapp/storage-api/config"
	. "github.com/netapp/storage-api/logging"
	"github.com/netapp/storage-api/storage"
	"github.com/netapp/storage-api/utils/errors"
)

// retryAfterSeconds is advertised to clients when the array is unreachable.
const retryAfterSeconds = "5"

// Handlers serves the REST routes against a single backend instance.
type Handlers struct {
	backend    storage.Backend
	authorizer Authorizer
	adminGroup string
}

func NewHandlers(backend storage.Backend, authorizer Authorizer, adminGroup string) *Handlers {
	if adminGroup == "" {
		adminGroup = config.DefaultAdminGroup
	}
	return &Handlers{
		backend:    backend,
		authorizer: authorizer,
		adminGroup: adminGroup,
	}
}

type ErrorResponse struct {
	Error string `json:"error,omitempty"`
	Kind  string `json:"kind,omitempty"`
	Field string `json:"field,omitempty"`
}

func (e *ErrorResponse) setError(err error) {
	e.Error = err.Error()
	e.Kind = string(errors.KindOf(err))
	var failure errors.ValidationFailure
	if errors.As(err, &failure) {
		e.Field = failure.Field()
	}
}

type errorResponse interface {
	setError(err error)
}

type VersionResponse struct {
	Version    string `json:"version"`
	APIVersion string `json:"apiVersion"`
	Backend    string `json:"backend"`
	ErrorResponse
}

type VolumeResponse struct {
	Volume *storage.Volume `json:"volume,omitempty"`
	ErrorResponse
}

type VolumesResponse struct {
	Volumes []*storage.Volume `json:"volumes"`
	ErrorResponse
}

type SnapshotResponse struct {
	Snapshot *storage.Snapshot `json:"snapshot,omitempty"`
	ErrorResponse
}

type SnapshotsResponse struct {
	Snapshots []*storage.Snapshot `json:"snapshots"`
	ErrorResponse
}

type LockResponse struct {
	Lock *storage.Lock `json:"lock,omitempty"`
	ErrorResponse
}

type LocksResponse struct {
	Locks []*storage.Lock `json:"locks"`
	ErrorResponse
}

type PolicyResponse struct {
	Policy *storage.Policy `json:"policy,omitempty"`
	ErrorResponse
}

type PoliciesResponse struct {
	Policies []*storage.Policy `json:"policies"`
	ErrorResponse
}

type ExportResponse struct {
	Export *storage.Export `json:"export,omitempty"`
	ErrorResponse
}

type CloneVolumeRequest struct {
	Name         string `json:"name"`
	FromSnapshot string `json:"from_snapshot,omitempty"`
}

type RollbackVolumeRequest struct {
	Snapshot string `json:"snapshot"`
}

type SetPolicyRequest struct {
	Policy string `json:"policy"`
}

type CreatePolicyRequest struct {
	Rules []string `json:"rules"`
}

// httpStatusCodeForError maps a domain error kind to its transport status.
func httpStatusCodeForError(err error) int {
	switch errors.KindOf(err) {
	case errors.KindNone:
		return http.StatusOK
	case errors.KindNotFound:
		return http.StatusNotFound
	case errors.KindAlreadyExists:
		return http.StatusConflict
	case errors.KindValidation:
		return http.StatusBadRequest
	case errors.KindForbidden:
		return http.StatusForbidden
	case errors.KindBackendUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeHTTPResponse(ctx context.Context, w http.ResponseWriter, response interface{}, httpStatusCode int) {
	body, err := json.Marshal(response)
	if err != nil {
		Logc(ctx).WithFields(LogFields{
			"response": response,
			"error":    err,
		}).Error("Failed to marshal HTTP response.")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(httpStatusCode)
	if _, err = w.Write(append(body, '\n')); err != nil {
		Logc(ctx).WithFields(LogFields{
			"response": response,
			"error":    err,
		}).Error("Failed to write HTTP response.")
	}
}

// pathVars returns the route variables with their URL escaping removed.
func pathVars(r *http.Request) (map[string]string, error) {
	vars := mux.Vars(r)
	decoded := make(map[string]string, len(vars))
	for name, raw := range vars {
		value, err := url.PathUnescape(raw)
		if err != nil {
			return nil, errors.ValidationError(name, "invalid escaping in %q", raw)
		}
		decoded[name] = value
	}
	return decoded, nil
}

func routeName(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		return route.GetName()
	}
	return ""
}

// decodeBody reads a JSON request body into v. An empty body leaves v untouched.
func decodeBody(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return nil
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, config.MaxRESTRequestSize))
	if err != nil {
		return errors.ValidationError("body", "unable to read request body; %v", err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()
	if err = decoder.Decode(v); err != nil {
		return errors.ValidationError("body", "invalid JSON; %v", err)
	}
	if _, err = decoder.Token(); err != io.EOF {
		return errors.ValidationError("body", "invalid JSON; unexpected data after the request")
	}
	return nil
}

// serveGeneric runs call and writes either response or the mapped error.
func serveGeneric(
	w http.ResponseWriter,
	r *http.Request,
	response errorResponse,
	successCode int,
	call func(ctx context.Context, vars map[string]string) error,
) {
	ctx := r.Context()

	vars, err := pathVars(r)
	if err == nil {
		err = call(ctx, vars)
	}

	httpStatusCode := successCode
	if err != nil {
		response.setError(err)
		httpStatusCode = httpStatusCodeForError(err)
		if errors.IsRetryable(err) {
			w.Header().Set("Retry-After", retryAfterSeconds)
		}

		entry := Logc(ctx).WithFields(LogFields{
			"route": routeName(r),
			"kind":  errors.KindOf(err),
		}).WithError(err)
		if httpStatusCode >= http.StatusInternalServerError {
			entry.Error("REST request failed.")
		} else {
			entry.Debug("REST request rejected.")
		}
	}

	writeHTTPResponse(ctx, w, response, httpStatusCode)
}

// authorize rejects callers outside the admin group before the backend is consulted.
func (h *Handlers) authorize(inner http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.authorizer == nil || !h.authorizer.IsMember(r, h.adminGroup) {
			Logc(r.Context()).WithFields(LogFields{
				"group":  h.adminGroup,
				"method": r.Method,
				"uri":    r.RequestURI,
			}).Warn("Caller is not a member of the admin group.")

			response := &ErrorResponse{}
			response.setError(errors.ForbiddenError("membership in group %s is required", h.adminGroup))
			writeHTTPResponse(r.Context(), w, response, http.StatusForbidden)
			return
		}
		inner.ServeHTTP(w, r)
	})
}

func (h *Handlers) GetVersion(w http.ResponseWriter, r *http.Request) {
	response := &VersionResponse{
		Version:    config.OrchestratorVersion,
		APIVersion: config.OrchestratorAPIVersion,
		Backend:    h.backend.Name(),
	}
	writeHTTPResponse(r.Context(), w, response, http.StatusOK)
}

// ListVolumes returns every volume, or the single volume at the junction_path query parameter.
func (h *Handlers) ListVolumes(w http.ResponseWriter, r *http.Request) {
	response := &VolumesResponse{Volumes: make([]*storage.Volume, 0)}
	serveGeneric(w, r, response, http.StatusOK, func(ctx context.Context, _ map[string]string) error {
		if junctionPath := r.URL.Query().Get("junction_path"); junctionPath != "" {
			volume, err := h.backend.GetVolumeByJunctionPath(ctx, junctionPath)
			if err != nil {
				return err
			}
			response.Volumes = append(response.Volumes, volume)
			return nil
		}

		volumes, err := h.backend.Volumes(ctx)
		if err != nil {
			return err
		}
		response.Volumes = append(response.Volumes, volumes...)
		return nil
	})
}

func (h *Handlers) GetVolume(w http.ResponseWriter, r *http.Request) {
	response := &VolumeResponse{}
	serveGeneric(w, r, response, http.StatusOK, func(ctx context.Context, vars map[string]string) (err error) {
		response.Volume, err = h.backend.GetVolume(ctx, vars["volume"])
		return err
	})
}

func (h *Handlers) CreateVolume(w http.ResponseWriter, r *http.Request) {
	response := &VolumeResponse{}
	serveGeneric(w, r, response, http.StatusCreated, func(ctx context.Context, vars map[string]string) (err error) {
		payload := make(map[string]any)
		if err = decodeBody(r, &payload); err != nil {
			return err
		}
		response.Volume, err = h.backend.CreateVolume(ctx, vars["volume"], payload)
		return err
	})
}

func (h *Handlers) PatchVolume(w http.ResponseWriter, r *http.Request) {
	response := &VolumeResponse{}
	serveGeneric(w, r, response, http.StatusOK, func(ctx context.Context, vars map[string]string) (err error) {
		payload := make(map[string]any)
		if err = decodeBody(r, &payload); err != nil {
			return err
		}
		response.Volume, err = h.backend.PatchVolume(ctx, vars["volume"], payload)
		return err
	})
}

func (h *Handlers) RestrictVolume(w http.ResponseWriter, r *http.Request) {
	serveGeneric(w, r, &ErrorResponse{}, http.StatusOK, func(ctx context.Context, vars map[string]string) error {
		return h.backend.RestrictVolume(ctx, vars["volume"])
	})
}

func (h *Handlers) CloneVolume(w http.ResponseWriter, r *http.Request) {
	response := &VolumeResponse{}
	serveGeneric(w, r, response, http.StatusCreated, func(ctx context.Context, vars map[string]string) (err error) {
		request := &CloneVolumeRequest{}
		if err = decodeBody(r, request); err != nil {
			return err
		}
		response.Volume, err = h.backend.CloneVolume(ctx, vars["volume"], request.Name, request.FromSnapshot)
		return err
	})
}

func (h *Handlers) RollbackVolume(w http.ResponseWriter, r *http.Request) {
	serveGeneric(w, r, &ErrorResponse{}, http.StatusOK, func(ctx context.Context, vars map[string]string) error {
		request := &RollbackVolumeRequest{}
		if err := decodeBody(r, request); err != nil {
			return err
		}
		return h.backend.RollbackVolume(ctx, vars["volume"], request.Snapshot)
	})
}

func (h *Handlers) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	response := &SnapshotsResponse{Snapshots: make([]*storage.Snapshot, 0)}
	serveGeneric(w, r, response, http.StatusOK, func(ctx context.Context, vars map[string]string) error {
		snapshots, err := h.backend.Snapshots(ctx, vars["volume"])
		if err != nil {
			return err
		}
		response.Snapshots = append(response.Snapshots, snapshots...)
		return nil
	})
}

func (h *Handlers) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	response := &SnapshotResponse{}
	serveGeneric(w, r, response, http.StatusOK, func(ctx context.Context, vars map[string]string) (err error) {
		response.Snapshot, err = h.backend.GetSnapshot(ctx, vars["volume"], vars["snapshot"])
		return err
	})
}

func (h *Handlers) CreateSnapshot(w http.ResponseWriter, r *http.Request) {
	response := &SnapshotResponse{}
	serveGeneric(w, r, response, http.StatusCreated, func(ctx context.Context, vars map[string]string) (err error) {
		response.Snapshot, err = h.backend.CreateSnapshot(ctx, vars["volume"], vars["snapshot"])
		return err
	})
}

func (h *Handlers) DeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	serveGeneric(w, r, &ErrorResponse{}, http.StatusOK, func(ctx context.Context, vars map[string]string) error {
		return h.backend.DeleteSnapshot(ctx, vars["volume"], vars["snapshot"])
	})
}

func (h *Handlers) ListLocks(w http.ResponseWriter, r *http.Request) {
	response := &LocksResponse{Locks: make([]*storage.Lock, 0)}
	serveGeneric(w, r, response, http.StatusOK, func(ctx context.Context, vars map[string]string) error {
		locks, err := h.backend.Locks(ctx, vars["volume"])
		if err != nil {
			return err
		}
		response.Locks = append(response.Locks, locks...)
		return nil
	})
}

func (h *Handlers) CreateLock(w http.ResponseWriter, r *http.Request) {
	response := &LockResponse{}
	serveGeneric(w, r, response, http.StatusCreated, func(ctx context.Context, vars map[string]string) (err error) {
		response.Lock, err = h.backend.CreateLock(ctx, vars["volume"], vars["host"])
		return err
	})
}

func (h *Handlers) RemoveLock(w http.ResponseWriter, r *http.Request) {
	serveGeneric(w, r, &ErrorResponse{}, http.StatusOK, func(ctx context.Context, vars map[string]string) error {
		return h.backend.RemoveLock(ctx, vars["volume"], vars["host"])
	})
}

func (h *Handlers) SetPolicy(w http.ResponseWriter, r *http.Request) {
	response := &VolumeResponse{}
	serveGeneric(w, r, response, http.StatusOK, func(ctx context.Context, vars map[string]string) (err error) {
		request := &SetPolicyRequest{}
		if err = decodeBody(r, request); err != nil {
			return err
		}
		response.Volume, err = h.backend.SetPolicy(ctx, vars["volume"], request.Policy)
		return err
	})
}

func (h *Handlers) RemovePolicy(w http.ResponseWriter, r *http.Request) {
	serveGeneric(w, r, &ErrorResponse{}, http.StatusOK, func(ctx context.Context, vars map[string]string) error {
		return h.backend.RemovePolicy(ctx, vars["volume"])
	})
}

func (h *Handlers) GetExport(w http.ResponseWriter, r *http.Request) {
	response := &ExportResponse{}
	serveGeneric(w, r, response, http.StatusOK, func(ctx context.Context, vars map[string]string) (err error) {
		response.Export, err = h.backend.GetExport(ctx, vars["volume"])
		return err
	})
}

func (h *Handlers) ListPolicies(w http.ResponseWriter, r *http.Request) {
	response := &PoliciesResponse{Policies: make([]*storage.Policy, 0)}
	serveGeneric(w, r, response, http.StatusOK, func(ctx context.Context, _ map[string]string) error {
		policies, err := h.backend.Policies(ctx)
		if err != nil {
			return err
		}
		response.Policies = append(response.Policies, policies...)
		return nil
	})
}

func (h *Handlers) GetPolicy(w http.ResponseWriter, r *http.Request) {
	response := &PolicyResponse{}
	serveGeneric(w, r, response, http.StatusOK, func(ctx context.Context, vars map[string]string) (err error) {
		response.Policy, err = h.backend.GetPolicy(ctx, vars["policy"])
		return err
	})
}

func (h *Handlers) CreatePolicy(w http.ResponseWriter, r *http.Request) {
	response := &PolicyResponse{}
	serveGeneric(w, r, response, http.StatusCreated, func(ctx context.Context, vars map[string]string) (err error) {
		request := &CreatePolicyRequest{}
		if err = decodeBody(r, request); err != nil {
			return err
		}
		response.Policy, err = h.backend.CreatePolicy(ctx, vars["policy"], request.Rules)
		return err
	})
}

func (h *Handlers) EnsurePolicyRulePresent(w http.ResponseWriter, r *http.Request) {
	response := &PolicyResponse{}
	serveGeneric(w, r, response, http.StatusOK, func(ctx context.Context, vars map[string]string) (err error) {
		response.Policy, err = h.backend.EnsurePolicyRulePresent(ctx, vars["policy"], vars["rule"])
		return err
	})
}

func (h *Handlers) EnsurePolicyRuleAbsent(w http.ResponseWriter, r *http.Request) {
	response := &PolicyResponse{}
	serveGeneric(w, r, response, http.StatusOK, func(ctx context.Context, vars map[string]string) (err error) {
		response.Policy, err = h.backend.EnsurePolicyRuleAbsent(ctx, vars["policy"], vars["rule"])
		return err
	})
}

func logLevelFor(admin bool) log.Level {
	if admin {
		return log.InfoLevel
	}
	return log.DebugLevel
}
