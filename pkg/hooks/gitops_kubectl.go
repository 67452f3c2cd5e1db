package hooks

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// Mutation verbs that modify cluster state, matched against the verb area
// of the command
var kubectlMutationVerbs = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bapply\b`),
	regexp.MustCompile(`(?i)\bcreate\b`),
	regexp.MustCompile(`(?i)\bedit\b`),
	regexp.MustCompile(`(?i)\bpatch\b`),
	regexp.MustCompile(`(?i)\bdelete\b`),
	regexp.MustCompile(`(?i)\breplace\b`),
	regexp.MustCompile(`(?i)\bscale\b`),
	regexp.MustCompile(`(?i)\bautoscale\b`),
	regexp.MustCompile(`(?i)\brollout\s+(restart|undo|pause|resume)\b`),
	regexp.MustCompile(`(?i)\bset\b`),
	regexp.MustCompile(`(?i)\blabel\b`),
	regexp.MustCompile(`(?i)\bannotate\b`),
	regexp.MustCompile(`(?i)\bexpose\b`),
	regexp.MustCompile(`(?i)\brun\b`),
	regexp.MustCompile(`(?i)\bdrain\b`),
	regexp.MustCompile(`(?i)\bcordon\b`),
	regexp.MustCompile(`(?i)\buncordon\b`),
	regexp.MustCompile(`(?i)\btaint\b`),
	regexp.MustCompile(`(?i)\battach\b`),
	regexp.MustCompile(`(?i)\bexec\b`),
	regexp.MustCompile(`(?i)\bcp\b`),
	regexp.MustCompile(`(?i)\bport-forward\b`),
}

// Imperative flags that force mutations regardless of verb
var kubectlImperativePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bkubectl\s+.*--force\b`),
	regexp.MustCompile(`(?i)\bkubectl\s+.*--grace-period=0\b`),
	regexp.MustCompile(`(?i)\bkubectl\s+.*--now\b`),
}

var kubectlReadOnlyVerbs = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bget\b`),
	regexp.MustCompile(`(?i)\bdescribe\b`),
	regexp.MustCompile(`(?i)\blogs\b`),
	regexp.MustCompile(`(?i)\bexplain\b`),
	regexp.MustCompile(`(?i)\bdiff\b`),
	regexp.MustCompile(`(?i)\bapi-resources\b`),
	regexp.MustCompile(`(?i)\bapi-versions\b`),
	regexp.MustCompile(`(?i)\bversion\b`),
	regexp.MustCompile(`(?i)\bcluster-info\b`),
	regexp.MustCompile(`(?i)\btop\b`),
	regexp.MustCompile(`(?i)\bauth\s+can-i\b`),
	regexp.MustCompile(`(?i)\bconfig\s+view\b`),
	regexp.MustCompile(`(?i)\brollout\s+status\b`),
	regexp.MustCompile(`(?i)\brollout\s+history\b`),
	regexp.MustCompile(`(?i)\bwait\b`),
}

var kubectlDryRunPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)--dry-run\b`),
	regexp.MustCompile(`(?i)--dry-run=client\b`),
	regexp.MustCompile(`(?i)--dry-run=server\b`),
}

// ArgoCD namespace and CRD references that indicate a bootstrap scenario
var argocdPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)-n\s+(argocd|argo-cd|argocd-system)\b`),
	regexp.MustCompile(`(?i)--namespace[=\s]+(argocd|argo-cd|argocd-system)\b`),
	regexp.MustCompile(`(?i)applications?\.argoproj\.io`),
	regexp.MustCompile(`(?i)applicationsets?\.argoproj\.io`),
	regexp.MustCompile(`(?i)appprojects?\.argoproj\.io`),
	regexp.MustCompile(`(?i)argocd/`),
}

var (
	// kubectl at the start of the command or after a pipe/semicolon
	kubectlCommandRe = regexp.MustCompile(`(?i)(^|[|;&]\s*)kubectl\b`)

	// Verb area: kubectl, any flags, then one or two verb words. The
	// two-word form catches subcommands like "rollout restart".
	kubectlVerbRe     = regexp.MustCompile(`(?i)\bkubectl\s+(?:(?:--?[^\s]+\s+)*)([a-z-]+(?:\s+[a-z-]+)?)`)
	kubectlReadVerbRe = regexp.MustCompile(`(?i)\bkubectl\s+(?:(?:--?[^\s]+\s+)*)([a-z-]+)`)
)

var kubectlBannerRule = strings.Repeat("=", 70)

// GitopsKubectlHook hard-blocks kubectl mutations so cluster changes go
// through the GitOps workflow. Read-only and dry-run invocations pass, and
// unknown verbs pass too: only known mutations block.
type GitopsKubectlHook struct{}

// NewGitopsKubectlHook creates the PreToolUse kubectl mutation guard.
func NewGitopsKubectlHook() *GitopsKubectlHook {
	return &GitopsKubectlHook{}
}

// Name implements Hook.
func (h *GitopsKubectlHook) Name() string { return "gitops-kubectl" }

// Event implements Hook.
func (h *GitopsKubectlHook) Event() Event { return EventPreToolUse }

// Description implements Hook.
func (h *GitopsKubectlHook) Description() string {
	return "Blocks kubectl mutations, requiring the GitOps workflow"
}

// ToolMatcher returns the settings.json matcher for this hook.
func (h *GitopsKubectlHook) ToolMatcher() string { return "Bash" }

// Run implements Hook.
func (h *GitopsKubectlHook) Run(_ context.Context, payload *Payload) Result {
	command := payload.Command()
	if payload.ToolName != "Bash" || command == "" {
		return Result{Decision: DecisionAllow}
	}

	if !kubectlCommandRe.MatchString(command) {
		return Result{Decision: DecisionAllow}
	}

	if matchesAny(kubectlDryRunPatterns, command) {
		return Result{Decision: DecisionAllow}
	}

	if isKubectlReadOnly(command) {
		return Result{Decision: DecisionAllow}
	}

	if isKubectlMutation(command) {
		verb := extractKubectlVerb(command)
		if matchesAny(argocdPatterns, command) {
			return Result{Decision: DecisionBlock, Reason: argocdBootstrapReason(verb)}
		}
		return Result{Decision: DecisionBlock, Reason: gitopsBlockReason(verb)}
	}

	return Result{Decision: DecisionAllow}
}

func matchesAny(patterns []*regexp.Regexp, command string) bool {
	for _, pattern := range patterns {
		if pattern.MatchString(command) {
			return true
		}
	}
	return false
}

// isKubectlReadOnly checks the read-only verbs against the matched verb
// area rather than the whole command, so resource names containing a verb
// word do not count.
func isKubectlReadOnly(command string) bool {
	verbArea := kubectlReadVerbRe.FindString(command)
	if verbArea == "" {
		return false
	}
	return matchesAny(kubectlReadOnlyVerbs, verbArea)
}

func isKubectlMutation(command string) bool {
	verbArea := kubectlVerbRe.FindString(command)
	if verbArea != "" && matchesAny(kubectlMutationVerbs, verbArea) {
		return true
	}
	return matchesAny(kubectlImperativePatterns, command)
}

func extractKubectlVerb(command string) string {
	match := kubectlVerbRe.FindStringSubmatch(command)
	if match == nil {
		return "unknown"
	}
	return match[1]
}

func gitopsBlockReason(verb string) string {
	return fmt.Sprintf(`
%[1]s
KUBECTL MUTATION BLOCKED - GITOPS REQUIRED
%[1]s

Command: kubectl %[2]s

Direct kubectl mutations are FORBIDDEN in this environment.
All cluster changes MUST go through GitOps workflow.

WHY: GitOps ensures:
  - Auditable change history (git log)
  - Peer review (pull requests)
  - Rollback capability (git revert)
  - Disaster recovery (git clone)
  - Infrastructure as Code (declarative manifests)

PROPER WORKFLOW:
  1. Use the gitops-apply skill
  2. Update manifest in git repository
  3. Commit changes with conventional format
  4. ArgoCD/Flux will sync to cluster

To proceed with GitOps workflow, say:
  'Use gitops-apply skill to make this change'

READ-ONLY OPERATIONS (allowed):
  kubectl get, describe, logs, explain, diff, top, etc.

DRY-RUN OPERATIONS (allowed):
  kubectl apply --dry-run=client
  kubectl create --dry-run=server

%[1]s

`, kubectlBannerRule, verb)
}

func argocdBootstrapReason(verb string) string {
	return fmt.Sprintf(`
%[1]s
ARGOCD BOOTSTRAP DETECTED - OVERRIDE AVAILABLE
%[1]s

Command: kubectl %[2]s

ArgoCD cannot sync itself - bootstrap exception applies.

QUESTION: Is this a one-off or needed for future deployments?

ONE-OFF (debugging, temporary, won't repeat):
  Say "one-off bootstrap" to proceed with kubectl directly

RECOVERY-NEEDED (new clusters, disaster recovery, repeatable):
  1. Add command to scripts/bootstrap.sh (initial setup)
  2. Add command to scripts/bootstrap-idempotent.sh (re-runnable)
  3. Commit the bootstrap script changes
  4. Then say "bootstrap updated" to proceed with kubectl

IDEMPOTENT PATTERN EXAMPLE:
  kubectl apply -f argocd/install.yaml || true
  kubectl wait --for=condition=available deployment/argocd-server \
    -n argocd --timeout=300s

For detailed bootstrap workflow, see:
  gitops-apply skill > references/BOOTSTRAP-WORKFLOW.md

%[1]s

`, kubectlBannerRule, verb)
}
