package pbxproj

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/soapywu/xcbundle/pegparser"
)

const COMMENT_KEY_SUFFIX = pegparser.CommentKeySuffix

func isObject(obj interface{}) bool {
	_, ok := obj.(pegparser.Object)
	return ok
}

func toObject(obj interface{}) pegparser.Object {
	return obj.(pegparser.Object)
}

func isArray(obj interface{}) bool {
	_, ok := obj.([]interface{})
	return ok
}

func toArray(obj interface{}) []interface{} {
	return obj.([]interface{})
}

func isString(obj interface{}) bool {
	_, ok := obj.(string)
	return ok
}

func toString(obj interface{}) string {
	return obj.(string)
}

func isInt(obj interface{}) bool {
	switch obj.(type) {
	case int, int8, int16, int32, int64:
		return true
	}
	return false
}

func toIntString(obj interface{}) string {
	switch obj.(type) {
	case int, int8, int16, int32, int64:
		return strconv.FormatInt(reflect.ValueOf(obj).Int(), 10)
	}

	return ""
}

func toCommentKey(key string) string {
	return key + COMMENT_KEY_SUFFIX
}

func isCommentKey(key string) bool {
	return strings.HasSuffix(key, COMMENT_KEY_SUFFIX)
}

func nonCommentsFilter(key string, v interface{}) bool {
	return !onlyCommentsFilter(key, v)
}

func onlyCommentsFilter(key string, _ interface{}) bool {
	return isCommentKey(key)
}

func stringToInterfaceSlice(val []string) []interface{} {
	if val == nil {
		return nil
	}
	result := make([]interface{}, len(val))
	for i, v := range val {
		result[i] = v
	}
	return result
}

// listValue returns the identifier of a list entry, which is either a bare
// string or a {value, comment} object.
func listValue(v interface{}) string {
	switch v := v.(type) {
	case string:
		return v
	case pegparser.Object:
		return v.GetString("value")
	}
	return ""
}

func listContains(list []interface{}, value string) bool {
	for _, v := range list {
		if listValue(v) == value {
			return true
		}
	}
	return false
}

func prependToObjectList(obj pegparser.Object, key string, val interface{}) {
	if obj.IsNil() {
		return
	}
	list, _ := obj.GetArray(key)
	obj.Set(key, append([]interface{}{val}, list...))
}

func addToObjectListOnlyNotExist(obj pegparser.Object, key string, val interface{}, equal func(v1, v2 interface{}) bool) bool {
	if obj.IsNil() {
		return false
	}
	list := obj.ForceGet(key)
	if list == nil {
		list = []interface{}{val}
	} else {
		for _, v := range list.([]interface{}) {
			if equal(v, val) {
				return false
			}
		}
		list = append(list.([]interface{}), val)
	}
	obj.Set(key, list)
	return true
}

func sameListValue(v1, v2 interface{}) bool {
	return listValue(v1) == listValue(v2)
}

var unquotedChars = func() [256]bool {
	var set [256]bool
	for c := 'a'; c <= 'z'; c++ {
		set[c] = true
	}
	for c := 'A'; c <= 'Z'; c++ {
		set[c] = true
	}
	for c := '0'; c <= '9'; c++ {
		set[c] = true
	}
	for _, c := range "_$./" {
		set[c] = true
	}
	return set
}()

// Quote renders text as a descriptor scalar, adding quotes and escapes when
// it holds characters Xcode never leaves bare.
func Quote(text string) string {
	if text == "" {
		return `""`
	}
	bare := true
	for i := 0; i < len(text); i++ {
		if !unquotedChars[text[i]] {
			bare = false
			break
		}
	}
	if bare {
		return text
	}
	escaped := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\t", `\t`).Replace(text)
	return `"` + escaped + `"`
}
