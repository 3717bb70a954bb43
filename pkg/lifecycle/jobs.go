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

package lifecycle

import (
	"fmt"

	"github.com/NVIDIA/dataeng-lifecycle/pkg/dataeng"
)

// SamplesBucket holds the sample programs and input data.
const SamplesBucket = "s3a://cloudera-altus-data-engineering-samples"

// Sample job names.
const (
	SparkJobName     = "sample-Spark-Job"
	HiveJobName      = "sample-hive-job"
	MapReduceJobName = "sample-Mapreduce-job"
	AllInOneJobName  = "sample-SparkAllInOne-Job"
)

// Sample cluster names.
const (
	SparkClusterName     = "Sample-Spark2"
	HiveClusterName      = "sample-Hive"
	MapReduceClusterName = "sample-MR"
	AllInOneClusterName  = "Sample-Spark-AllInOne-2"
)

const (
	sparkJar       = SamplesBucket + "/spark/medicare/program/altus-sample-medicare-spark2x.jar"
	sparkMainClass = "com.cloudera.altus.sample.medicare.transform"
	sparkInput     = SamplesBucket + "/spark/medicare/input/"
	hiveScript     = SamplesBucket + "/hive/program/med-part1.hql"
	hiveData       = SamplesBucket + "/hive/data/"
	mr2Jar         = SamplesBucket + "/mr2/wordcount/program/altus-sample-mr2.jar"
	mr2MainClass   = "com.cloudera.altus.sample.mr2.wordcount.WordCount"
	mr2Input       = SamplesBucket + "/mr2/wordcount/input/poetry/"
)

// SparkJob returns the medicare Spark sample writing to outputLocation.
func SparkJob(outputLocation string) dataeng.JobRequest {
	return dataeng.JobRequest{
		Name: SparkJobName,
		Spark: &dataeng.SparkJob{
			Jars:                []string{sparkJar},
			MainClass:           sparkMainClass,
			ApplicationArgument: []string{sparkInput, outputLocation},
		},
	}
}

// HiveJob returns the medicare Hive sample. The script creates tables over
// the sample data and has no output location.
func HiveJob() dataeng.JobRequest {
	return dataeng.JobRequest{
		Name: HiveJobName,
		Hive: &dataeng.HiveJob{
			Script: hiveScript,
			Params: []string{
				"HOSPITALS_PATH=" + hiveData + "hospitals/",
				"READMISSIONS_PATH=" + hiveData + "readmissionsDeath/",
				"EFFECTIVECARE_PATH=" + hiveData + "effectiveCare/",
				"GDP_PATH=" + hiveData + "GDP/",
			},
		},
	}
}

// MapReduceJob returns the word count sample writing to outputLocation.
func MapReduceJob(outputLocation string) dataeng.JobRequest {
	return dataeng.JobRequest{
		Name: MapReduceJobName,
		MapReduce: &dataeng.MapReduceJob{
			Jars:      []string{mr2Jar},
			MainClass: mr2MainClass,
			Arguments: []string{mr2Input, outputLocation},
		},
	}
}

// AllInOneJob returns the Spark sample under the all-in-one job name.
func AllInOneJob(outputLocation string) dataeng.JobRequest {
	j := SparkJob(outputLocation)
	j.Name = AllInOneJobName
	return j
}

// SampleJob returns the sample job for the given type.
func SampleJob(t dataeng.JobType, outputLocation string) (dataeng.JobRequest, error) {
	switch t {
	case dataeng.JobTypeSpark:
		return SparkJob(outputLocation), nil
	case dataeng.JobTypeHive:
		return HiveJob(), nil
	case dataeng.JobTypeMapReduce:
		return MapReduceJob(outputLocation), nil
	default:
		return dataeng.JobRequest{}, fmt.Errorf("no sample job for type %q", t)
	}
}

// needsOutput reports whether the sample job of type t writes to the
// configured output location.
func needsOutput(t dataeng.JobType) bool {
	return t != dataeng.JobTypeHive
}
