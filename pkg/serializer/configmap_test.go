// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package serializer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"
)

func TestParseConfigMapURI(t *testing.T) {
	tests := []struct {
		uri     string
		ns      string
		name    string
		wantErr bool
	}{
		{"cm://default/report", "default", "report", false},
		{"cm:// ns / r ", "ns", "r", false},
		{"cm://default", "", "", true},
		{"cm:///report", "", "", true},
		{"cm://default/", "", "", true},
		{"cm://a/b/c", "", "", true},
		{"file://a/b", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			ns, name, err := ParseConfigMapURI(tt.uri)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.ns, ns)
			assert.Equal(t, tt.name, name)
		})
	}
}

func TestConfigMapWriter_RoundTrip(t *testing.T) {
	kc := fake.NewClientset()
	ctx := context.Background()

	w := NewConfigMapWriter("ops", "report", FormatYAML)
	w.Client = kc
	require.NoError(t, w.Serialize(ctx, newSample()))

	cm, err := kc.CoreV1().ConfigMaps("ops").Get(ctx, "report", metav1.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, "yaml", cm.Data["format"])
	assert.Contains(t, cm.Data["data.yaml"], "name: c1")
	assert.NotEmpty(t, cm.Data["timestamp"])
	assert.Equal(t, "dataeng-lifecycle", cm.Labels["app.kubernetes.io/name"])

	got, err := FromConfigMap[sample](ctx, kc, "ops", "report")
	require.NoError(t, err)
	assert.Equal(t, "CREATED", got.Inner.Status)
}

func TestFromConfigMap_FallbackAndMissing(t *testing.T) {
	ctx := context.Background()
	kc := fake.NewClientset(
		&corev1.ConfigMap{
			ObjectMeta: metav1.ObjectMeta{Name: "json-only", Namespace: "ops"},
			Data:       map[string]string{"data.json": `{"name":"j"}`},
		},
		&corev1.ConfigMap{
			ObjectMeta: metav1.ObjectMeta{Name: "empty", Namespace: "ops"},
		},
	)

	got, err := FromConfigMap[sample](ctx, kc, "ops", "json-only")
	require.NoError(t, err)
	assert.Equal(t, "j", got.Name)

	_, err = FromConfigMap[sample](ctx, kc, "ops", "empty")
	assert.Error(t, err)

	_, err = FromConfigMap[sample](ctx, kc, "ops", "absent")
	assert.Error(t, err)
}
