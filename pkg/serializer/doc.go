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

// Package serializer renders values as JSON, YAML or a flattened table and
// reads JSON or YAML documents back.
//
// Output goes to stdout, a file or a Kubernetes ConfigMap:
//
//	w := serializer.NewFileWriterOrStdout(serializer.FormatYAML, path)
//	if c, ok := w.(serializer.Closer); ok {
//	    defer c.Close()
//	}
//	err := w.Serialize(ctx, report)
//
// A path of the form cm://namespace/name selects the ConfigMap writer, which
// applies the data with server-side apply.
//
// Input sources for FromFile are local paths, http(s) URLs and ConfigMaps:
//
//	cfg, err := serializer.FromFile[config.Config]("dataeng.yaml")
//
// RespondJSON writes buffered JSON HTTP responses for the ops server.
package serializer
