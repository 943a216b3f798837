package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/venkatramks/legal-ai-frontend/config"
	"github.com/venkatramks/legal-ai-frontend/model"
)

// Orchestrator drives an uploaded file through processing until a fully
// populated Document is selectable. At most one poller runs per file id at a
// time; a new request for the same target supersedes the previous one.
type Orchestrator struct {
	client     *Client
	pollerCfg  config.PollerConfig
	onProgress func(string)

	mu     sync.Mutex
	active map[string]*pollRegistration
}

// pollRegistration identifies one poller run so release only unregisters its
// own entry and never a superseding run's.
type pollRegistration struct {
	cancel context.CancelFunc
}

func NewOrchestrator(client *Client, pollerCfg *config.PollerConfig) *Orchestrator {
	return &Orchestrator{
		client:    client,
		pollerCfg: *pollerCfg,
		active:    make(map[string]*pollRegistration),
	}
}

// SetProgressFunc registers a callback for per-tick progress lines.
func (o *Orchestrator) SetProgressFunc(fn func(string)) {
	o.onProgress = fn
}

// ProcessUpload drives an upload result to a selectable document. Failures
// are not retried automatically: the caller always gets either a document or
// an error, never a silent hang.
func (o *Orchestrator) ProcessUpload(ctx context.Context, up *model.UploadResult) (*model.Document, error) {
	// The upload endpoint may have processed the file synchronously.
	if up.Immediate != nil {
		return o.resolveDocument(ctx, up.Immediate.DocumentID, up.FileName)
	}

	result, accepted, err := o.client.StartProcessing(ctx, up.FileID)
	if err != nil {
		return nil, err
	}
	if !accepted {
		documentID := ""
		if result != nil {
			documentID = result.DocumentID
		}
		return o.resolveDocument(ctx, documentID, up.FileName)
	}

	status, err := o.pollProcessing(ctx, up.FileID)
	if err != nil {
		return nil, err
	}
	return o.resolveDocument(ctx, status.DocumentID, up.FileName)
}

// Reprocess re-runs text extraction for an existing document, polling when
// the backend accepts the job asynchronously. Used as the remediation path
// when clause analysis finds no source text.
func (o *Orchestrator) Reprocess(ctx context.Context, targetID string) error {
	_, accepted, err := o.client.StartProcessing(ctx, targetID)
	if err != nil {
		return err
	}
	if !accepted {
		return nil
	}
	_, err = o.pollProcessing(ctx, targetID)
	return err
}

// pollProcessing runs a bounded poller for the file's processing job,
// superseding any poller already running for the same file id.
func (o *Orchestrator) pollProcessing(ctx context.Context, fileID string) (*model.ProcessStatus, error) {
	pollCtx, reg := o.supersede(ctx, fileID)
	defer o.release(fileID, reg)

	poller := NewPoller(fileID, model.JobKindProcess, &o.pollerCfg, func(ctx context.Context) (CheckOutcome[*model.ProcessStatus], error) {
		status, err := o.client.GetProcessStatus(ctx, fileID)
		if err != nil {
			return CheckOutcome[*model.ProcessStatus]{}, err
		}
		switch status.Status {
		case model.ProcessDone:
			return CheckOutcome[*model.ProcessStatus]{State: model.JobDone, Payload: status}, nil
		case model.ProcessError:
			return CheckOutcome[*model.ProcessStatus]{State: model.JobError, Message: status.ErrorMsg}, nil
		default:
			return CheckOutcome[*model.ProcessStatus]{State: model.JobPending}, nil
		}
	})
	poller.SetProgressFunc(o.onProgress)

	return poller.Run(pollCtx)
}

// supersede cancels any running poller for targetID and registers a fresh
// cancellable context for the new one.
func (o *Orchestrator) supersede(parent context.Context, targetID string) (context.Context, *pollRegistration) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if prev, ok := o.active[targetID]; ok {
		slog.Info("superseding active processing job", "file_id", targetID)
		prev.cancel()
	}

	ctx, cancel := context.WithCancel(parent)
	reg := &pollRegistration{cancel: cancel}
	o.active[targetID] = reg
	return ctx, reg
}

// release removes the poller's registration unless it was already superseded.
func (o *Orchestrator) release(targetID string, reg *pollRegistration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	reg.cancel()
	if o.active[targetID] == reg {
		delete(o.active, targetID)
	}
}

// CancelAll stops every active poller. Called when the selection that owns
// the in-flight work goes away.
func (o *Orchestrator) CancelAll() {
	o.mu.Lock()
	defer o.mu.Unlock()
	for id, reg := range o.active {
		reg.cancel()
		delete(o.active, id)
	}
}

// resolveDocument refreshes the document collection and locates the newly
// processed entry: by server-confirmed id when the job result carried one,
// otherwise by filename as a degraded last resort. Two uploads with the same
// filename can race on the fallback path; that ambiguity is accepted and
// logged rather than silently trusted.
func (o *Orchestrator) resolveDocument(ctx context.Context, documentID, fileName string) (*model.Document, error) {
	documents, err := o.client.ListDocuments(ctx)
	if err != nil {
		return nil, err
	}

	if documentID != "" {
		for i := range documents {
			if documents[i].ID == documentID {
				return &documents[i], nil
			}
		}
	}

	slog.Warn("matching processed document by filename", "file_name", fileName, "document_id", documentID)
	var match *model.Document
	for i := range documents {
		if documents[i].FileName != fileName {
			continue
		}
		if match == nil || documents[i].CreatedAt.After(match.CreatedAt) {
			match = &documents[i]
		}
	}
	if match == nil {
		return nil, &ProcessingError{Message: fmt.Sprintf("processed document for %q did not appear in the document list", fileName)}
	}
	return match, nil
}
