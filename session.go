package nisar

import (
	"fmt"
	"log"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"

	"github.com/nci/nisar/container"
)

// session owns the tuned container handle for one dataset. Tuning is
// fixed at open and the handle lives until the dataset closes.
type session struct {
	c        container.Container
	endpoint string
	remote   bool
}

// openSession opens ref with the two-pass strategy: a first open with
// defaults discovers the file's native page size, then the handle kept
// for the dataset's lifetime is opened with an I/O buffer rounded up to
// a whole number of pages. A failed first pass is not fatal; the
// configured default page size is assumed instead.
func openSession(ref string, cfg *Config, open container.Opener) (*session, error) {
	endpoint, remote, err := resolveEndpoint(ref)
	if err != nil {
		return nil, err
	}

	openCfg := container.OpenConfig{}
	if remote {
		auth, err := loadObjectStoreAuth()
		if err != nil {
			return nil, err
		}
		endpoint = strings.Replace(endpoint, "{region}", auth.Region, 1)
		openCfg.Auth = auth
	}

	pageSize := cfg.DefaultPageSize
	if probe, err := open(endpoint, openCfg); err != nil {
		log.Printf("nisar: tuning probe of %s failed, assuming %d byte pages: %v", endpoint, pageSize, err)
	} else {
		if ps, err := probe.PageSize(); err == nil && ps > 0 {
			pageSize = ps
		}
		probe.Close()
	}

	if remote {
		target := uint64(cfg.PageBufferTargetMB) << 20
		openCfg.PageBufferBytes = (target + pageSize - 1) / pageSize * pageSize
		if openCfg.PageBufferBytes < pageSize {
			openCfg.PageBufferBytes = pageSize
		}
	}

	c, err := open(endpoint, openCfg)
	if err != nil {
		return nil, fmt.Errorf("nisar: cannot open %s: %w", endpoint, err)
	}
	return &session{c: c, endpoint: endpoint, remote: remote}, nil
}

func (s *session) Close() error {
	return s.c.Close()
}

// resolveEndpoint translates a cloud object reference into the https URL
// the ranged-read transport needs. The region placeholder is filled in
// once credentials are known. Anything that is not an object reference
// passes through as a local path or direct URL.
func resolveEndpoint(ref string) (endpoint string, remote bool, err error) {
	var rest string
	switch {
	case strings.HasPrefix(ref, "s3://"):
		rest = ref[len("s3://"):]
	case strings.HasPrefix(ref, "/vsis3/"):
		rest = ref[len("/vsis3/"):]
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return ref, true, nil
	default:
		return ref, false, nil
	}

	bucket, key, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", false, fmt.Errorf("nisar: malformed object reference %q", ref)
	}
	return fmt.Sprintf("https://%s.s3.{region}.amazonaws.com/%s", bucket, key), true, nil
}

// loadObjectStoreAuth reads credentials and region from the process
// environment only. A profile store is never consulted. A cloud reference
// without a region is a hard failure.
func loadObjectStoreAuth() (*container.ObjectStoreAuth, error) {
	envCfg, err := awsconfig.NewEnvConfig()
	if err != nil {
		return nil, fmt.Errorf("nisar: cannot read AWS environment: %w", err)
	}
	if envCfg.Region == "" {
		return nil, fmt.Errorf("nisar: AWS_REGION must be set for object store access")
	}
	return &container.ObjectStoreAuth{
		Region:          envCfg.Region,
		AccessKeyID:     envCfg.Credentials.AccessKeyID,
		SecretAccessKey: envCfg.Credentials.SecretAccessKey,
		SessionToken:    envCfg.Credentials.SessionToken,
	}, nil
}
