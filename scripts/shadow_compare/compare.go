package main

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
)

const maxReportedFields = 20

// legacyKeys renames Mongoose field names onto the ones the Go API emits.
var legacyKeys = map[string]string{
	"_id":           "id",
	"cloudinary_id": "mediaId",
}

type envelope struct {
	Status  string          `json:"status"`
	Results *int            `json:"results"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type diffReport struct {
	fields  []string
	derived []string
}

type comparer struct {
	derived map[string]bool
}

// compare decodes both bodies as response envelopes and lists where they differ.
func (c comparer) compare(legacyBody, goBody []byte) (diffReport, error) {
	var legacy, current envelope
	if err := json.Unmarshal(legacyBody, &legacy); err != nil {
		return diffReport{}, fmt.Errorf("legacy body is not an envelope: %w", err)
	}
	if err := json.Unmarshal(goBody, &current); err != nil {
		return diffReport{}, fmt.Errorf("go body is not an envelope: %w", err)
	}

	var report diffReport
	if legacy.Status != current.Status {
		report.add("status", legacy.Status, current.Status)
	}
	if !reflect.DeepEqual(legacy.Results, current.Results) {
		report.add("results", deref(legacy.Results), deref(current.Results))
	}
	if legacy.Message != current.Message {
		report.add("message", legacy.Message, current.Message)
	}

	legacyData, err := decodeData(legacy.Data)
	if err != nil {
		return diffReport{}, fmt.Errorf("legacy data: %w", err)
	}
	currentData, err := decodeData(current.Data)
	if err != nil {
		return diffReport{}, fmt.Errorf("go data: %w", err)
	}
	c.walk("data", canonical(legacyData), canonical(currentData), &report)
	return report, nil
}

func decodeData(raw json.RawMessage) (interface{}, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// canonical renames legacy keys, drops the Mongoose version key and sorts record lists by id.
func canonical(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, field := range val {
			if k == "__v" {
				continue
			}
			if renamed, ok := legacyKeys[k]; ok {
				k = renamed
			}
			out[k] = canonical(field)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = canonical(item)
		}
		sort.SliceStable(out, func(i, j int) bool { return recordID(out[i]) < recordID(out[j]) })
		return out
	default:
		return v
	}
}

func recordID(v interface{}) string {
	if m, ok := v.(map[string]interface{}); ok {
		if id, ok := m["id"].(string); ok {
			return id
		}
	}
	return ""
}

func (c comparer) walk(path string, legacy, current interface{}, report *diffReport) {
	switch l := legacy.(type) {
	case map[string]interface{}:
		cur, ok := current.(map[string]interface{})
		if !ok {
			report.add(path, legacy, current)
			return
		}
		for _, key := range unionKeys(l, cur) {
			lv, lok := l[key]
			cv, cok := cur[key]
			child := path + "." + key
			if c.derived[key] {
				if !reflect.DeepEqual(lv, cv) {
					report.derived = append(report.derived, fmt.Sprintf("%s: legacy=%v go=%v", child, lv, cv))
				}
				continue
			}
			switch {
			case !lok:
				report.add(child, "<absent>", cv)
			case !cok:
				report.add(child, lv, "<absent>")
			default:
				c.walk(child, lv, cv, report)
			}
		}
	case []interface{}:
		cur, ok := current.([]interface{})
		if !ok || len(cur) != len(l) {
			report.add(path+".length", len(l), lengthOf(current))
			return
		}
		for i := range l {
			c.walk(fmt.Sprintf("%s[%d]", path, i), l[i], cur[i], report)
		}
	default:
		if !reflect.DeepEqual(legacy, current) {
			report.add(path, legacy, current)
		}
	}
}

func (r *diffReport) add(path string, legacy, current interface{}) {
	if len(r.fields) == maxReportedFields {
		r.fields = append(r.fields, "...")
	}
	if len(r.fields) > maxReportedFields {
		return
	}
	r.fields = append(r.fields, fmt.Sprintf("%s: legacy=%v go=%v", path, legacy, current))
}

func unionKeys(a, b map[string]interface{}) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	keys := make([]string, 0, len(a)+len(b))
	for _, m := range []map[string]interface{}{a, b} {
		for k := range m {
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				keys = append(keys, k)
			}
		}
	}
	sort.Strings(keys)
	return keys
}

func lengthOf(v interface{}) string {
	if list, ok := v.([]interface{}); ok {
		return fmt.Sprint(len(list))
	}
	return strings.TrimSpace(fmt.Sprintf("<%T>", v))
}

func deref(n *int) interface{} {
	if n == nil {
		return "<absent>"
	}
	return *n
}
