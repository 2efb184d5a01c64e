// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package appservice

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Azure/azmgmt/internal/logging"
	"github.com/Azure/azmgmt/internal/rest"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/cloud"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/streaming"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	kuduModuleName    = "azmgmt/appservice/kudu"
	maxLogLineSize    = 1 << 20
	headerRequestID   = "x-ms-client-request-id"
	contentTypeZip    = "application/zip"
	contentTypeBinary = "application/octet-stream"
)

// ErrKuduDeploymentFailed is returned when a zip deployment completes in the Failed state.
var ErrKuduDeploymentFailed = errors.New("kudu deployment failed")

// LogKind selects the log stream of StreamLogs.
type LogKind string

const (
	LogKindApplication LogKind = "application"
	LogKindHTTP        LogKind = "http"
	LogKindTrace       LogKind = "trace"
	LogKindDeployment  LogKind = "deployment"
	LogKindAll         LogKind = "all"
)

func (k LogKind) path() (string, error) {
	switch k {
	case LogKindApplication:
		return "/api/logstream/application", nil
	case LogKindHTTP:
		return "/api/logstream/http", nil
	case LogKindTrace:
		return "/api/logstream/kudu/trace", nil
	case LogKindDeployment:
		return "/api/logstream/kudu/deployment", nil
	case LogKindAll, "":
		return "/api/logstream", nil
	}

	return "", fmt.Errorf("unknown log kind %q", k)
}

// KuduDeploymentStatus is the status code of a Kudu deployment.
type KuduDeploymentStatus int

const (
	KuduDeploymentPending   KuduDeploymentStatus = 0
	KuduDeploymentBuilding  KuduDeploymentStatus = 1
	KuduDeploymentDeploying KuduDeploymentStatus = 2
	KuduDeploymentFailed    KuduDeploymentStatus = 3
	KuduDeploymentSuccess   KuduDeploymentStatus = 4
)

// KuduDeployment is a deployment record of the SCM site.
type KuduDeployment struct {
	ID         string               `json:"id"`
	Status     KuduDeploymentStatus `json:"status"`
	StatusText string               `json:"status_text"`
	Message    string               `json:"message"`
	Progress   string               `json:"progress"`
	Complete   bool                 `json:"complete"`
	Active     bool                 `json:"active"`
	LogURL     string               `json:"log_url"`
	SiteName   string               `json:"site_name"`
}

// KuduClientOptions configures a KuduClient.
type KuduClientOptions struct {
	// Endpoint overrides the SCM endpoint derived from the default host name of the web app.
	Endpoint string
}

// KuduClient talks to the SCM (Kudu) site of a web app with the Resource Manager credential.
type KuduClient struct {
	endpoint      string
	pl            runtime.Pipeline
	logger        *zap.Logger
	pollFrequency time.Duration
}

// scmHostName inserts scm after the first label of host: app.azurewebsites.net becomes app.scm.azurewebsites.net.
func scmHostName(host string) string {
	name, suffix, ok := strings.Cut(host, ".")
	if !ok {
		return host
	}

	return name + ".scm." + suffix
}

func newKuduClient(m *Manager, defaultHostName string, opts *KuduClientOptions) (*KuduClient, error) {
	endpoint := ""
	if opts != nil {
		endpoint = strings.TrimSuffix(opts.Endpoint, "/")
	}

	if endpoint == "" {
		if defaultHostName == "" {
			return nil, errors.New("appservice.newKuduClient: web app has no default host name")
		}

		endpoint = "https://" + scmHostName(defaultHostName)
	}

	audience := m.armOpts.Cloud.Services[cloud.ResourceManager].Audience
	if audience == "" {
		audience = cloud.AzurePublic.Services[cloud.ResourceManager].Audience
	}

	cl, err := azcore.NewClient(kuduModuleName, rest.ModuleVersion, runtime.PipelineOptions{
		PerRetry: []policy.Policy{
			runtime.NewBearerTokenPolicy(m.cred, []string{strings.TrimSuffix(audience, "/") + "/.default"}, nil),
		},
	}, &m.armOpts.ClientOptions)
	if err != nil {
		return nil, fmt.Errorf("appservice.newKuduClient: %w", err)
	}

	return &KuduClient{
		endpoint:      endpoint,
		pl:            cl.Pipeline(),
		logger:        m.logger.Named("kudu"),
		pollFrequency: m.opts.PollOptions().Frequency,
	}, nil
}

// Endpoint returns the SCM site URL.
func (k *KuduClient) Endpoint() string { return k.endpoint }

func (k *KuduClient) newRequest(ctx context.Context, method, path string, q url.Values) (*policy.Request, error) {
	req, err := runtime.NewRequest(ctx, method, runtime.JoinPaths(k.endpoint, path))
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	if len(q) > 0 {
		req.Raw().URL.RawQuery = q.Encode()
	}

	req.Raw().Header.Set("Accept", "application/json")

	return req, nil
}

func (k *KuduClient) do(req *policy.Request, accept ...int) (*http.Response, error) {
	resp, err := k.pl.Do(req)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	if !runtime.HasStatusCode(resp, accept...) {
		return nil, runtime.NewResponseError(resp)
	}

	return resp, nil
}

// ZipDeploy uploads zip as the content of wwwroot and waits for the deployment to complete.
// zip must be seekable so the upload can be retried.
func (k *KuduClient) ZipDeploy(ctx context.Context, zip io.ReadSeeker) (*KuduDeployment, error) {
	req, err := k.newRequest(ctx, http.MethodPost, "/api/zipdeploy", url.Values{"isAsync": []string{"true"}})
	if err != nil {
		return nil, fmt.Errorf("KuduClient.ZipDeploy: %w", err)
	}

	requestID := uuid.NewString()
	req.Raw().Header.Set(headerRequestID, requestID)

	if err := req.SetBody(streaming.NopCloser(zip), contentTypeZip); err != nil {
		return nil, fmt.Errorf("KuduClient.ZipDeploy: %w", err)
	}

	resp, err := k.do(req, http.StatusOK, http.StatusAccepted)
	if err != nil {
		return nil, fmt.Errorf("KuduClient.ZipDeploy: %w", err)
	}

	statusURL, err := k.statusURL(resp)
	if err != nil {
		return nil, fmt.Errorf("KuduClient.ZipDeploy: %w", err)
	}

	k.logger.Info("zip deployment accepted", zap.String(logging.FieldRequestID, requestID), zap.String(logging.FieldURL, statusURL))

	dep, err := k.waitForDeployment(ctx, statusURL)
	if err != nil {
		return nil, fmt.Errorf("KuduClient.ZipDeploy: %w", err)
	}

	return dep, nil
}

// statusURL returns the deployment status location of an async deployment response.
func (k *KuduClient) statusURL(resp *http.Response) (string, error) {
	loc := resp.Header.Get("Location")
	if loc == "" {
		return runtime.JoinPaths(k.endpoint, "/api/deployments/latest"), nil
	}

	base, err := url.Parse(k.endpoint + "/")
	if err != nil {
		return "", err //nolint:wrapcheck
	}

	ref, err := url.Parse(loc)
	if err != nil {
		return "", fmt.Errorf("invalid Location header %q: %w", loc, err)
	}

	return base.ResolveReference(ref).String(), nil
}

func (k *KuduClient) waitForDeployment(ctx context.Context, statusURL string) (*KuduDeployment, error) {
	ticker := time.NewTicker(k.pollFrequency)
	defer ticker.Stop()

	for {
		dep, err := k.deploymentStatus(ctx, statusURL)
		if err != nil {
			return nil, err
		}

		if dep != nil && dep.Complete {
			if dep.Status == KuduDeploymentFailed {
				return dep, fmt.Errorf("%w: %s", ErrKuduDeploymentFailed, dep.StatusText)
			}

			return dep, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (k *KuduClient) deploymentStatus(ctx context.Context, statusURL string) (*KuduDeployment, error) {
	req, err := runtime.NewRequest(ctx, http.MethodGet, statusURL)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	resp, err := k.do(req, http.StatusOK, http.StatusAccepted)
	if err != nil {
		return nil, err
	}

	var dep KuduDeployment
	if err := runtime.UnmarshalAsJSON(resp, &dep); err != nil {
		return nil, err //nolint:wrapcheck
	}

	if dep.ID == "" && !dep.Complete {
		return nil, nil
	}

	return &dep, nil
}

// WarDeploy uploads war as the application appName. An empty appName deploys to ROOT.
func (k *KuduClient) WarDeploy(ctx context.Context, war io.ReadSeeker, appName string) error {
	q := url.Values{}
	if appName != "" {
		q.Set("name", appName)
	}

	req, err := k.newRequest(ctx, http.MethodPost, "/api/wardeploy", q)
	if err != nil {
		return fmt.Errorf("KuduClient.WarDeploy: %w", err)
	}

	if err := req.SetBody(streaming.NopCloser(war), contentTypeBinary); err != nil {
		return fmt.Errorf("KuduClient.WarDeploy: %w", err)
	}

	if _, err := k.do(req, http.StatusOK, http.StatusAccepted); err != nil {
		return fmt.Errorf("KuduClient.WarDeploy: %w", err)
	}

	return nil
}

// StreamLogs copies the log stream of kind to w line by line until ctx is cancelled or the server closes the stream.
// Cancellation ends the stream without an error.
func (k *KuduClient) StreamLogs(ctx context.Context, kind LogKind, w io.Writer) error {
	path, err := kind.path()
	if err != nil {
		return fmt.Errorf("KuduClient.StreamLogs: %w", err)
	}

	req, err := k.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return fmt.Errorf("KuduClient.StreamLogs: %w", err)
	}

	req.Raw().Header.Set("Accept", "text/plain")
	runtime.SkipBodyDownload(req)

	resp, err := k.do(req, http.StatusOK)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}

		return fmt.Errorf("KuduClient.StreamLogs: %w", err)
	}
	defer resp.Body.Close()

	sc := bufio.NewScanner(resp.Body)
	sc.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxLogLineSize)

	for sc.Scan() {
		if _, err := fmt.Fprintln(w, sc.Text()); err != nil {
			return fmt.Errorf("KuduClient.StreamLogs: writing: %w", err)
		}
	}

	if err := sc.Err(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("KuduClient.StreamLogs: reading: %w", err)
	}

	return nil
}

// Settings returns the settings of the SCM site.
func (k *KuduClient) Settings(ctx context.Context) (map[string]string, error) {
	req, err := k.newRequest(ctx, http.MethodGet, "/api/settings", nil)
	if err != nil {
		return nil, fmt.Errorf("KuduClient.Settings: %w", err)
	}

	resp, err := k.do(req, http.StatusOK)
	if err != nil {
		return nil, fmt.Errorf("KuduClient.Settings: %w", err)
	}

	res := make(map[string]string)
	if err := runtime.UnmarshalAsJSON(resp, &res); err != nil {
		return nil, fmt.Errorf("KuduClient.Settings: %w", err)
	}

	return res, nil
}
