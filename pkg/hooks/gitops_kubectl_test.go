package hooks

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGitopsKubectl_BlocksMutations(t *testing.T) {
	tests := []struct {
		command string
		verb    string
	}{
		{"kubectl apply -f deployment.yaml", "apply"},
		{"kubectl delete pod web-0", "delete pod"},
		{"kubectl scale deployment web --replicas=3", "scale deployment"},
		{"kubectl rollout restart deployment/web", "rollout restart"},
		{"kubectl exec -it web-0 -- bash", "exec"},
		{"kubectl patch svc web -p '{}'", "patch svc"},
		{"cat manifest.yaml | kubectl apply -f -", "apply"},
	}

	hook := NewGitopsKubectlHook()
	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			result := hook.Run(context.Background(), bashPayload(tt.command))
			assert.Equal(t, DecisionBlock, result.Decision)
			assert.Contains(t, result.Reason, "KUBECTL MUTATION BLOCKED - GITOPS REQUIRED")
			assert.Contains(t, result.Reason, "Command: kubectl "+tt.verb)
			assert.Contains(t, result.Reason, "gitops-apply skill")
		})
	}
}

func TestGitopsKubectl_AllowsReadOnly(t *testing.T) {
	tests := []string{
		"kubectl get pods -A",
		"kubectl describe pod web-0",
		"kubectl logs -f web-0",
		"kubectl explain deployment.spec",
		"kubectl diff -f deployment.yaml",
		"kubectl top nodes",
		"kubectl wait --for=condition=ready pod/web-0",
		"kubectl version",
	}

	hook := NewGitopsKubectlHook()
	for _, command := range tests {
		t.Run(command, func(t *testing.T) {
			result := hook.Run(context.Background(), bashPayload(command))
			assert.Equal(t, DecisionAllow, result.Decision)
		})
	}
}

func TestGitopsKubectl_AllowsDryRun(t *testing.T) {
	tests := []string{
		"kubectl apply -f deployment.yaml --dry-run=client",
		"kubectl create deployment web --image=nginx --dry-run=server -o yaml",
		"kubectl delete pod web-0 --dry-run",
	}

	hook := NewGitopsKubectlHook()
	for _, command := range tests {
		t.Run(command, func(t *testing.T) {
			result := hook.Run(context.Background(), bashPayload(command))
			assert.Equal(t, DecisionAllow, result.Decision)
		})
	}
}

func TestGitopsKubectl_IgnoresNonKubectl(t *testing.T) {
	tests := []string{
		"helm upgrade web ./chart",
		"docker run nginx",
		"echo kubectl apply is blocked here",
		"git commit -m 'kubectl manifests'",
	}

	hook := NewGitopsKubectlHook()
	for _, command := range tests {
		t.Run(command, func(t *testing.T) {
			result := hook.Run(context.Background(), bashPayload(command))
			assert.Equal(t, DecisionAllow, result.Decision)
		})
	}
}

func TestGitopsKubectl_UnknownVerbsAllowed(t *testing.T) {
	// Conservative stance: only known mutations block. Two-word verbs
	// like "rollout status" never match the single-word read-only area
	// and fall through to the default allow.
	tests := []string{
		"kubectl rollout status deployment/web",
		"kubectl auth can-i create pods",
		"kubectl config view",
	}

	hook := NewGitopsKubectlHook()
	for _, command := range tests {
		t.Run(command, func(t *testing.T) {
			result := hook.Run(context.Background(), bashPayload(command))
			assert.Equal(t, DecisionAllow, result.Decision)
		})
	}
}

func TestGitopsKubectl_ArgoCDBootstrapBanner(t *testing.T) {
	tests := []string{
		"kubectl apply -n argocd -f install.yaml",
		"kubectl apply -f argocd/install.yaml",
		"kubectl delete applications.argoproj.io web",
		"kubectl apply --namespace argo-cd -f install.yaml",
	}

	hook := NewGitopsKubectlHook()
	for _, command := range tests {
		t.Run(command, func(t *testing.T) {
			result := hook.Run(context.Background(), bashPayload(command))
			assert.Equal(t, DecisionBlock, result.Decision)
			assert.Contains(t, result.Reason, "ARGOCD BOOTSTRAP DETECTED - OVERRIDE AVAILABLE")
			assert.Contains(t, result.Reason, `Say "one-off bootstrap" to proceed`)
			assert.NotContains(t, result.Reason, "KUBECTL MUTATION BLOCKED")
		})
	}
}

func TestGitopsKubectl_BannerFormat(t *testing.T) {
	hook := NewGitopsKubectlHook()

	result := hook.Run(context.Background(), bashPayload("kubectl apply -f x.yaml"))

	rule := strings.Repeat("=", 70)
	assert.True(t, strings.HasPrefix(result.Reason, "\n"+rule+"\n"))
	assert.True(t, strings.HasSuffix(result.Reason, rule+"\n\n"))
	assert.Equal(t, 3, strings.Count(result.Reason, rule))
}
