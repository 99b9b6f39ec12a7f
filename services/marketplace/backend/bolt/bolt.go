// Copyright 2025 Innovation Lab Inc. <dev+marketplace@innovationlab.ai>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package bolt

import (
	"bytes"
	"context"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	bolt "go.etcd.io/bbolt"

	"github.com/innovationlab/marketplace/services/marketplace/backend"
)

var log = logrus.WithField("component", "marketplace/bolt")

type boltBackend struct {
	db       *bolt.DB
	filePath string
}

// metadata includes the data attached to an application record that is not
// part of its catalog representation
type metadata struct {
	ApplicationIdx uint64
}

// Bucket structure is
//	applications > {application_id} > record   > {backend.Application as JSON}
//	                                > metadata > {boltBackend.metadata}
//	application_indices > application_idx > {application_idx} > {application_id}

var applicationsBucketName = []byte("applications")

func getApplicationsBucket(tx *bolt.Tx) *bolt.Bucket {
	applicationsBucket := tx.Bucket(applicationsBucketName)
	if applicationsBucket == nil {
		log.Fatal("applications bucket doesn't exist")
	}
	return applicationsBucket
}

var recordKey = []byte("record")

var metadataKey = []byte("metadata")

var indicesBucketName = []byte("application_indices")

var applicationsIdxBucketName = []byte("application_idx")

func getApplicationsIdxBucket(tx *bolt.Tx) *bolt.Bucket {
	indicesBucket := tx.Bucket(indicesBucketName)
	if indicesBucket == nil {
		log.Fatal("indices bucket doesn't exist")
	}
	applicationsIdxBucket := indicesBucket.Bucket(applicationsIdxBucketName)
	if applicationsIdxBucket == nil {
		log.Fatal("applications idx bucket doesn't exist")
	}
	return applicationsIdxBucket
}

func serializeNumID(id uint64) []byte {
	// Format using a hex representation of a fixed length of 16 characters padded with 0
	return []byte(fmt.Sprintf("%016x", id))
}

func deserializeNumIDAsInt(value []byte) (int, error) {
	number, err := strconv.ParseInt(string(value), 16, 32)
	if err != nil {
		return 0, backend.NewUnexpectedError("unable to deserialize number id as an int (%w)", err)
	}
	return int(number), nil
}

func serializeApplicationID(applicationID string) []byte {
	return []byte(applicationID)
}

func deserializeApplicationID(value []byte) string {
	return string(value)
}

func serializeApplication(app *backend.Application) ([]byte, error) {
	v, err := json.Marshal(app)
	if err != nil {
		return nil, backend.NewUnexpectedError("unable to serialize application record (%w)", err)
	}
	return v, nil
}

func deserializeApplication(v []byte) (*backend.Application, error) {
	app := &backend.Application{}
	err := json.Unmarshal(v, app)
	if err != nil {
		return nil, backend.NewUnexpectedError("unable to deserialize application record (%w)", err)
	}
	return app, nil
}

func serializeMetadata(metadata *metadata) ([]byte, error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	err := enc.Encode(*metadata)
	if err != nil {
		return nil, backend.NewUnexpectedError("unable to serialize application metadata (%w)", err)
	}
	return buf.Bytes(), nil
}

func deserializeMetadata(v []byte) (*metadata, error) {
	dec := gob.NewDecoder(bytes.NewBuffer(v))
	metadata := &metadata{}
	err := dec.Decode(metadata)
	if err != nil {
		return nil, backend.NewUnexpectedError("unable to deserialize application metadata (%w)", err)
	}
	return metadata, nil
}

// CreateBoltBackend creates a Backend that stores the catalog in a bolt-managed file
func CreateBoltBackend(filePath string) (backend.Backend, error) {
	db, err := bolt.Open(filePath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		// Opening of the file failed
		return nil, err
	}
	// Create the root buckets
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(applicationsBucketName)
		if err != nil {
			return backend.NewUnexpectedError("unable to create the applications bucket (%w)", err)
		}
		indicesBucket, err := tx.CreateBucketIfNotExists(indicesBucketName)
		if err != nil {
			return backend.NewUnexpectedError("unable to create the application indices bucket (%w)", err)
		}
		_, err = indicesBucket.CreateBucketIfNotExists(applicationsIdxBucketName)
		if err != nil {
			return backend.NewUnexpectedError("unable to create the application idx bucket (%w)", err)
		}
		return nil
	})
	if err != nil {
		// Creation of the root buckets failed
		return nil, err
	}

	b := &boltBackend{
		db:       db,
		filePath: filePath,
	}
	return b, nil
}

func (b *boltBackend) Destroy() {
	b.db.Close()
	b.db = nil
}

func (b *boltBackend) CreateOrUpdateApplications(
	_ context.Context,
	apps []*backend.Application,
) error {
	err := b.db.Batch(func(tx *bolt.Tx) error {
		// Function must be idempotent as it might be called multiple times
		applicationsBucket := getApplicationsBucket(tx)
		applicationsIdxBucket := getApplicationsIdxBucket(tx)
		for _, app := range apps {
			applicationKey := serializeApplicationID(app.ID)
			var applicationIdx uint64
			applicationBucket := applicationsBucket.Bucket(applicationKey)

			if applicationBucket == nil {
				// This is a new application, inserting its idx
				var err error
				applicationBucket, err = applicationsBucket.CreateBucket(applicationKey)
				if err != nil {
					return backend.NewUnexpectedError("unable to add application %q bucket (%w)", app.ID, err)
				}

				// Because we use `NextSequence` here the applicationIdx starts at 1
				applicationIdx, _ = applicationsIdxBucket.NextSequence()
				applicationIdxKey := serializeNumID(applicationIdx)
				err = applicationsIdxBucket.Put(applicationIdxKey, applicationKey)
				if err != nil {
					return backend.NewUnexpectedError(
						"unable to add application %q insertion index (%w)", app.ID, err,
					)
				}
			} else {
				// This is an existing application, retrieving its idx
				metadataV := applicationBucket.Get(metadataKey)
				if metadataV == nil {
					return backend.NewUnexpectedError("no metadata for application %q", app.ID)
				}
				metadata, err := deserializeMetadata(metadataV)
				if err != nil {
					return err
				}
				applicationIdx = metadata.ApplicationIdx
			}

			// Insert / Update metadata
			metadataV, err := serializeMetadata(&metadata{
				ApplicationIdx: applicationIdx,
			})
			if err != nil {
				return err
			}

			err = applicationBucket.Put(metadataKey, metadataV)
			if err != nil {
				return backend.NewUnexpectedError("unable to add application %q metadata (%w)", app.ID, err)
			}

			// Insert / Update the record
			recordV, err := serializeApplication(app)
			if err != nil {
				return err
			}

			err = applicationBucket.Put(recordKey, recordV)
			if err != nil {
				return backend.NewUnexpectedError("unable to add application %q record (%w)", app.ID, err)
			}
		}
		return nil
	})

	if err != nil {
		// Error during the insertion
		return err
	}

	return nil
}

func (b *boltBackend) RetrieveApplications(
	_ context.Context,
	filter backend.ApplicationFilter,
	fromApplicationIdx int,
	count int,
) (backend.ApplicationsResult, error) {
	apps := []*backend.Application{}
	nextApplicationIdx := 0
	err := b.db.View(func(tx *bolt.Tx) error {
		applicationsBucket := getApplicationsBucket(tx)
		applicationsIdxBucket := getApplicationsIdxBucket(tx)

		var applicationIdxKey []byte
		var applicationIDKey []byte
		c := applicationsIdxBucket.Cursor()
		if fromApplicationIdx <= 0 {
			applicationIdxKey, applicationIDKey = c.First()
		} else {
			// Adding +1 because the stored applicationIdx offset
			applicationIdxKey, applicationIDKey = c.Seek(serializeNumID(uint64(fromApplicationIdx + 1)))
		}
		for ; applicationIdxKey != nil; applicationIdxKey, applicationIDKey = c.Next() {
			if count > 0 && len(apps) >= count {
				// We've retrieved enough applications
				break
			}
			applicationID := deserializeApplicationID(applicationIDKey)
			applicationBucket := applicationsBucket.Bucket(applicationIDKey)
			if applicationBucket == nil {
				return backend.NewUnexpectedError("no bucket for application %q", applicationID)
			}

			recordV := applicationBucket.Get(recordKey)
			if recordV == nil {
				return backend.NewUnexpectedError("no record for application %q", applicationID)
			}

			app, err := deserializeApplication(recordV)
			if err != nil {
				return err
			}

			if !filter.Selects(app) {
				continue
			}

			apps = append(apps, app)
		}

		if applicationIdxKey != nil {
			var err error
			nextApplicationIdx, err = deserializeNumIDAsInt(applicationIdxKey)
			if err != nil {
				return err
			}
			// Dealing with internal index being offseted
			nextApplicationIdx--
		} else {
			nextApplicationIdx = int(applicationsIdxBucket.Sequence())
		}

		return nil
	})

	if err != nil {
		// Error during the transaction
		return backend.ApplicationsResult{}, backend.NewUnexpectedError(
			"unable to retrieve requested applications (%w)", err,
		)
	}

	return backend.ApplicationsResult{Applications: apps, NextApplicationIdx: nextApplicationIdx}, nil
}

func getApplications(tx *bolt.Tx, ids []string) ([]*backend.Application, error) {
	apps := []*backend.Application{}
	applicationsBucket := getApplicationsBucket(tx)

	for _, id := range ids {
		applicationBucket := applicationsBucket.Bucket(serializeApplicationID(id))
		if applicationBucket == nil {
			return []*backend.Application{}, &backend.UnknownApplicationError{ApplicationID: id}
		}

		recordV := applicationBucket.Get(recordKey)
		if recordV == nil {
			return []*backend.Application{}, backend.NewUnexpectedError("no record for application %q", id)
		}

		app, err := deserializeApplication(recordV)
		if err != nil {
			return []*backend.Application{}, err
		}

		apps = append(apps, app)
	}

	return apps, nil
}

func (b *boltBackend) GetApplications(
	_ context.Context,
	ids []string,
) ([]*backend.Application, error) {
	apps := []*backend.Application{}
	err := b.db.View(func(tx *bolt.Tx) error {
		var err error
		apps, err = getApplications(tx, ids)
		return err
	})

	if err != nil {
		return []*backend.Application{}, err
	}

	return apps, nil
}

func (b *boltBackend) DeleteApplications(_ context.Context, ids []string) error {
	err := b.db.Batch(func(tx *bolt.Tx) error {
		// Function must be idempotent as it might be called multiple times
		applicationsBucket := getApplicationsBucket(tx)
		applicationsIdxBucket := getApplicationsIdxBucket(tx)
		for _, id := range ids {
			applicationIDKey := serializeApplicationID(id)
			applicationBucket := applicationsBucket.Bucket(applicationIDKey)

			if applicationBucket == nil {
				// The application already doesn't exist
				continue
			}

			// This is an existing application, retrieving its idx
			metadataV := applicationBucket.Get(metadataKey)
			if metadataV == nil {
				return backend.NewUnexpectedError("no metadata for application %q", id)
			}
			metadata, err := deserializeMetadata(metadataV)
			if err != nil {
				return err
			}
			applicationIdx := metadata.ApplicationIdx

			// Delete the application bucket
			err = applicationsBucket.DeleteBucket(applicationIDKey)
			if err != nil {
				return backend.NewUnexpectedError("unable to delete application %q bucket (%w)", id, err)
			}

			// Delete the application idx
			err = applicationsIdxBucket.Delete(serializeNumID(applicationIdx))
			if err != nil {
				return backend.NewUnexpectedError("unable to delete application %q idx (%w)", id, err)
			}
		}
		return nil
	})

	if err != nil {
		// Error during the deletion
		return err
	}

	return nil
}

func (b *boltBackend) ListFacets(_ context.Context) (backend.Facets, error) {
	apps := []*backend.Application{}
	err := b.db.View(func(tx *bolt.Tx) error {
		applicationsBucket := getApplicationsBucket(tx)
		c := applicationsBucket.Cursor()
		for applicationIDKey, v := c.First(); applicationIDKey != nil; applicationIDKey, v = c.Next() {
			if v != nil {
				// Not a sub-bucket
				continue
			}
			applicationBucket := applicationsBucket.Bucket(applicationIDKey)
			recordV := applicationBucket.Get(recordKey)
			if recordV == nil {
				return backend.NewUnexpectedError(
					"no record for application %q", deserializeApplicationID(applicationIDKey),
				)
			}
			app, err := deserializeApplication(recordV)
			if err != nil {
				return err
			}
			apps = append(apps, app)
		}
		return nil
	})

	if err != nil {
		return backend.Facets{}, err
	}

	return backend.ComputeFacets(apps), nil
}
