package manifest

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	appsv1 "k8s.io/api/apps/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	utilyaml "k8s.io/apimachinery/pkg/util/yaml"
)

// EnvValue reads the value of environment variable name from the first container of the
// first deployment in the manifest at path. Any failure to read, decode or find the value
// yields ("", false).
func EnvValue(path, name string) (string, bool) {
	dep, err := firstDeployment(path)
	if err != nil {
		return "", false
	}
	containers := dep.Spec.Template.Spec.Containers
	if len(containers) == 0 {
		return "", false
	}
	for _, env := range containers[0].Env {
		if env.Name == name && env.Value != "" {
			return env.Value, true
		}
	}
	return "", false
}

func firstDeployment(path string) (*appsv1.Deployment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	reader := utilyaml.NewYAMLReader(bufio.NewReader(bytes.NewReader(data)))
	for {
		doc, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("no deployment in %s", path)
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}

		var meta metav1.TypeMeta
		if err := utilyaml.Unmarshal(doc, &meta); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		if meta.Kind != "Deployment" {
			continue
		}
		var dep appsv1.Deployment
		if err := utilyaml.Unmarshal(doc, &dep); err != nil {
			return nil, fmt.Errorf("decode deployment in %s: %w", path, err)
		}
		return &dep, nil
	}
}
