package voice

import "github.com/luzi-app/luzi/internal/model"

// Notifier receives the lifecycle notifications the session controller emits.
// UI collaborators implement it to refresh views and surface toasts.
type Notifier interface {
	// RecognitionComplete fires after an expense was persisted; consumers
	// use it to refresh cached views.
	RecognitionComplete()
	// AmbiguousCategory fires when a pending expense needs the user to pick
	// among the ranked candidate categories.
	AmbiguousCategory(draft model.ExpenseDraft, candidates model.CategoryCandidates)
	// Success surfaces a user-facing success message.
	Success(title, detail string)
	// Error surfaces a user-facing error message.
	Error(title, detail string)
}
