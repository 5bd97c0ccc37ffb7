package pegparser

import (
	"encoding/json"
	"reflect"
)

type IterateActionType = int8

const (
	IterateActionContinue IterateActionType = iota
	IterateActionBreak
)

type ObjectItem = SliceItem

// Object is an ordered dictionary node of a parsed descriptor.
type Object struct {
	*SliceMap
}

type ObjectWithUUID struct {
	Object
	UUID string
}

func NewObjectItem(key string, value interface{}) ObjectItem {
	return SliceItem{key, value}
}

func NewObject() Object {
	return Object{
		SliceMap: NewSliceMap(),
	}
}

func NewObjectWithData(items []ObjectItem) Object {
	o := NewObject()
	for _, item := range items {
		o.Set(item.key, item.data)
	}

	return o
}

func toMarshalJSONValue(val interface{}) interface{} {
	switch v := val.(type) {
	case Object:
		return v.toMarshalJSONData()
	case []interface{}:
		list := make([]interface{}, len(v))
		for i, item := range v {
			list[i] = toMarshalJSONValue(item)
		}
		return list
	default:
		return v
	}
}

func (o Object) toMarshalJSONData() map[string]interface{} {
	dataMap := make(map[string]interface{})
	o.Foreach(func(key string, val interface{}) IterateActionType {
		dataMap[key] = toMarshalJSONValue(val)
		return IterateActionContinue
	})
	return dataMap
}

func (o Object) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.toMarshalJSONData())
}

func (o Object) IsNil() bool {
	return o.SliceMap == nil
}

func (o Object) IsEmpty() bool {
	if o.SliceMap == nil || o.sl == nil {
		return true
	}
	return o.Size() == 0
}

// GetObject returns the dictionary under key, or an empty detached Object.
func (o Object) GetObject(key string) Object {
	if o.SliceMap == nil {
		return NewObject()
	}
	if value, ok := o.Get(key); ok {
		if obj, ok := value.(Object); ok {
			return obj
		}
	}
	return NewObject()
}

func (o Object) GetString(key string) string {
	if o.SliceMap == nil {
		return ""
	}
	if value, ok := o.Get(key); ok {
		switch v := value.(type) {
		case string:
			return v
		default:
			return ""
		}
	}
	return ""
}

func (o Object) GetInt(key string) int {
	if o.SliceMap == nil {
		return 0
	}
	if value, ok := o.Get(key); ok {
		switch value.(type) {
		case int, int8, int16, int32, int64:
			return int(reflect.ValueOf(value).Int())
		}
	}
	return 0
}

// GetArray returns the list under key. The second result is false when key
// is missing or holds something other than a list.
func (o Object) GetArray(key string) ([]interface{}, bool) {
	if o.SliceMap == nil {
		return nil, false
	}
	value, ok := o.Get(key)
	if !ok {
		return nil, false
	}
	list, ok := value.([]interface{})
	return list, ok
}

type ApplyFunc = func(key string, val interface{}) IterateActionType
type FilterFunc = func(key string, val interface{}) bool

func (o Object) Foreach(apply ApplyFunc) {
	if o.IsEmpty() {
		return
	}
	for _, item := range o.Items() {
		if item.data == nil {
			continue
		}
		action := apply(item.key.(string), item.data)
		if action == IterateActionBreak {
			break
		}
	}
}

func (o Object) ForeachWithFilter(apply ApplyFunc, filter FilterFunc) {
	if o.IsEmpty() {
		return
	}
	for _, item := range o.Items() {
		key := item.key.(string)
		val := item.data
		if val == nil {
			continue
		}
		if filter(key, val) {
			action := apply(key, val)
			if action == IterateActionBreak {
				break
			}
		}
	}
}

func (o Object) Filter(f func(key string, val interface{}) bool) Object {
	newObj := NewObject()
	if o.IsEmpty() {
		return newObj
	}
	for _, item := range o.Items() {
		key := item.key.(string)
		val := item.data
		if f(key, val) {
			newObj.Set(key, val)
		}
	}
	return newObj
}
