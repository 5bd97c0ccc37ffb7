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
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/soapywu/xcbundle/pegparser"
)

const (
	INDENT = "\t"
)

type StringWriter interface {
	WriteString(string) (int, error)
	String() string
}

type PbxWriterOption func(w *PbxWriter)

func WithOmitEmpty() PbxWriterOption {
	return func(w *PbxWriter) {
		w.omitEmptyValues = true
	}
}

func WithStringWriter(writer StringWriter) PbxWriterOption {
	return func(w *PbxWriter) {
		w.stringWriter = writer
	}
}

// PbxWriter serialises a project in Xcode's own layout: one Begin/End
// marker pair per section, PBXBuildFile and PBXFileReference records on a
// single line, tabs for indentation.
type PbxWriter struct {
	stringWriter    StringWriter
	omitEmptyValues bool
	contents        pegparser.Object
	indentLevel     int
}

func NewPbxWriter(project *PbxProject, options ...PbxWriterOption) *PbxWriter {
	w := &PbxWriter{
		contents:     project.Contents(),
		stringWriter: &strings.Builder{},
		indentLevel:  0,
	}
	for _, option := range options {
		option(w)
	}
	return w
}

func indent(x int) string {
	if x <= 0 {
		return ""
	}
	return strings.Repeat(INDENT, x)
}

func getComment(key string, parent pegparser.Object) string {
	return parent.GetString(toCommentKey(key))
}

func (w *PbxWriter) writeFormatString(format string, str ...string) {
	_, _ = w.stringWriter.WriteString(fmt.Sprintf(format, stringToInterfaceSlice(str)...))
}

func (w *PbxWriter) write(format string, str ...string) {
	fmtStr := fmt.Sprintf(format, stringToInterfaceSlice(str)...)
	w.writeFormatString("%s%s", indent(w.indentLevel), fmtStr)
}

func (w *PbxWriter) writeNoIndent(format string, str ...string) {
	w.writeFormatString(format, str...)
}

// String renders the whole project.
func (w *PbxWriter) String() string {
	if b, ok := w.stringWriter.(*strings.Builder); ok {
		b.Reset()
	}
	w.indentLevel = 0
	w.writeHeadComment()
	w.writeProject()
	return w.stringWriter.String()
}

func (w *PbxWriter) Bytes() []byte {
	return []byte(w.String())
}

func (w *PbxWriter) Write(filePath string) error {
	if err := os.WriteFile(filePath, w.Bytes(), 0644); err != nil {
		return errors.Wrapf(err, "write %s", filePath)
	}
	return nil
}

func (w *PbxWriter) writeHeadComment() {
	comment := w.contents.GetString(pegparser.HeadCommentKey)
	if comment != "" {
		w.writeNoIndent("// %s\n", comment)
	}
}

func (w *PbxWriter) writeProject() {
	proj := w.contents.GetObject(pegparser.ProjectKey)

	w.write("{\n")
	w.indentLevel++
	w.writeEntries(proj, true)
	w.indentLevel--
	w.write("}\n")
}

func (w *PbxWriter) writeEntries(obj pegparser.Object, top bool) {
	obj.ForeachWithFilter(func(key string, val interface{}) pegparser.IterateActionType {
		cmt := getComment(key, obj)
		switch {
		case isArray(val):
			w.writeArray(toArray(val), key)
		case isObject(val):
			w.write("%s = {\n", key)
			w.indentLevel++
			if top && key == pegparser.ObjectsKey {
				w.writeObjectsSections(toObject(val))
			} else {
				w.writeEntries(toObject(val), false)
			}
			w.indentLevel--
			w.write("};\n")
		case isString(val) || isInt(val):
			str := scalar(val)
			if w.omitEmptyValues && (str == "" || str == `""`) {
				return pegparser.IterateActionContinue
			}
			if cmt != "" {
				w.write("%s = %s /* %s */;\n", key, str, cmt)
			} else {
				w.write("%s = %s;\n", key, str)
			}
		default:
			log.Warn().Str("key", key).Msgf("skipping value of unsupported type %T", val)
		}
		return pegparser.IterateActionContinue
	}, nonCommentsFilter)
}

func scalar(val interface{}) string {
	if isInt(val) {
		return toIntString(val)
	}
	return toString(val)
}

func (w *PbxWriter) writeObjectsSections(obj pegparser.Object) {
	obj.Foreach(func(key string, val interface{}) pegparser.IterateActionType {
		if !isObject(val) {
			return pegparser.IterateActionContinue
		}
		section := toObject(val)
		w.writeNoIndent("\n")
		w.writeSectionComment(key, true)
		w.writeSection(section)
		w.writeSectionComment(key, false)
		return pegparser.IterateActionContinue
	})
}

func (w *PbxWriter) writeArray(arr []interface{}, name string) {
	w.write("%s = (\n", name)
	w.indentLevel++

	for _, obj := range arr {
		switch {
		case isObject(obj):
			val := toObject(obj)
			value := val.GetString("value")
			comment := val.GetString("comment")
			if value != "" && comment != "" && val.Size() == 2 {
				w.write("%s /* %s */,\n", value, comment)
			} else {
				w.write("{\n")
				w.indentLevel++
				w.writeEntries(val, false)
				w.indentLevel--
				w.write("},\n")
			}
		case isString(obj) || isInt(obj):
			w.write("%s,\n", scalar(obj))
		default:
			log.Warn().Str("key", name).Msgf("skipping list item of unsupported type %T", obj)
		}
	}
	w.indentLevel--
	w.write(");\n")
}

func (w *PbxWriter) writeSectionComment(name string, begin bool) {
	if begin {
		w.writeNoIndent("/* Begin %s section */\n", name)
	} else {
		w.writeNoIndent("/* End %s section */\n", name)
	}
}

func isInlineIsa(isa string) bool {
	return isa == "PBXBuildFile" || isa == "PBXFileReference"
}

func (w *PbxWriter) writeSection(section pegparser.Object) {
	section.ForeachWithFilter(func(key string, val interface{}) pegparser.IterateActionType {
		cmt := getComment(key, section)
		if !isObject(val) {
			return pegparser.IterateActionContinue
		}
		obj := toObject(val)
		if isInlineIsa(obj.GetString(pegparser.IsaKey)) {
			w.writeInlineObject(key, cmt, obj)
			return pegparser.IterateActionContinue
		}
		if cmt != "" {
			w.write("%s /* %s */ = {\n", key, cmt)
		} else {
			w.write("%s = {\n", key)
		}
		w.indentLevel++
		w.writeEntries(obj, false)
		w.indentLevel--
		w.write("};\n")
		return pegparser.IterateActionContinue
	}, nonCommentsFilter)
}

func withComment(value, comment string) string {
	if comment == "" {
		return value
	}
	return fmt.Sprintf("%s /* %s */", value, comment)
}

func (w *PbxWriter) inlineValue(val interface{}) string {
	switch {
	case isArray(val):
		var b strings.Builder
		b.WriteString("(")
		for _, item := range toArray(val) {
			if isObject(item) && toObject(item).Size() == 2 && toObject(item).GetString("value") != "" {
				obj := toObject(item)
				b.WriteString(withComment(obj.GetString("value"), obj.GetString("comment")))
			} else {
				b.WriteString(w.inlineValue(item))
			}
			b.WriteString(", ")
		}
		b.WriteString(")")
		return b.String()
	case isObject(val):
		return "{" + w.inlineEntries(toObject(val)) + "}"
	case isString(val) || isInt(val):
		return scalar(val)
	}
	log.Warn().Msgf("skipping inline value of unsupported type %T", val)
	return `""`
}

func (w *PbxWriter) inlineEntries(ref pegparser.Object) string {
	var b strings.Builder
	ref.ForeachWithFilter(func(key string, val interface{}) pegparser.IterateActionType {
		value := w.inlineValue(val)
		if w.omitEmptyValues && isString(val) && (value == "" || value == `""`) {
			return pegparser.IterateActionContinue
		}
		b.WriteString(fmt.Sprintf("%s = %s; ", key, withComment(value, getComment(key, ref))))
		return pegparser.IterateActionContinue
	}, nonCommentsFilter)
	return b.String()
}

func (w *PbxWriter) writeInlineObject(name string, desc string, ref pegparser.Object) {
	w.write("%s = {%s};\n", withComment(name, desc), w.inlineEntries(ref))
}
