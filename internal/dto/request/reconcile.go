package request

type ReconcileRequest struct {
	DryRun bool `json:"dry_run"`
}
