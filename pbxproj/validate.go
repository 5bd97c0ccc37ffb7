/**
Licensed to the Apache Software Foundation (ASF) under one
or more contributor license agreements.  See the NOTICE file
distributed with this work for additional information
regarding copyright ownership.  The ASF licenses this file
to you under the Apache License, Version 2.0 (the
'License'); you may not use this file except in compliance
with the License.  You may obtain a copy of the License at
http://www.apache.org/licenses/LICENSE-2.0
Unless required by applicable law or agreed to in writing,
software distributed under the License is distributed on an
'AS IS' BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
KIND, either express or implied.  See the License for the
specific language governing permissions and limitations
under the License.
*/
package pbxproj

import (
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"howett.net/plist"
)

var ErrInvalidProject = errors.New("invalid project descriptor")

// invalid keeps both ErrInvalidProject and the decoder's error in the chain.
func invalid(err error) error {
	merr := multierror.Append(ErrInvalidProject, err)
	merr.ErrorFormat = func(es []error) string {
		return es[0].Error() + ": " + es[1].Error()
	}
	return merr
}

// Validate checks that data reads back as an OpenStep property list with an
// objects dictionary holding the rootObject.
func Validate(data []byte) error {
	var doc map[string]interface{}
	format, err := plist.Unmarshal(data, &doc)
	if err != nil {
		return invalid(err)
	}
	if format != plist.OpenStepFormat && format != plist.GNUStepFormat {
		return errors.Wrapf(ErrInvalidProject, "unexpected format %s", plist.FormatNames[format])
	}

	objects, ok := doc["objects"].(map[string]interface{})
	if !ok {
		return errors.Wrap(ErrInvalidProject, "no objects dictionary")
	}
	root, ok := doc["rootObject"].(string)
	if !ok || root == "" {
		return errors.Wrap(ErrInvalidProject, "no rootObject")
	}
	if _, ok := objects[root]; !ok {
		return errors.Wrapf(ErrInvalidProject, "rootObject %s is not defined", root)
	}
	return nil
}
