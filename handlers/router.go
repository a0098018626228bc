package handlers

import (
	"encoding/json"
	"net/http"
)

type operation int

const (
	opMethodNotAllowed operation = iota
	opPreflight
	opList
	opGet
	opLogin
	opCreate
	opUpdate
	opDelete
)

func (o operation) String() string {
	switch o {
	case opPreflight:
		return "preflight"
	case opList:
		return "list"
	case opGet:
		return "get"
	case opLogin:
		return "login"
	case opCreate:
		return "create"
	case opUpdate:
		return "update"
	case opDelete:
		return "delete"
	default:
		return "method-not-allowed"
	}
}

// protected reports whether the operation needs a verified credential.
func (o operation) protected() bool {
	return o == opCreate || o == opUpdate || o == opDelete
}

// route picks the operation for req. PUT and DELETE without an id still
// route to update/delete; the handler answers them with 400.
func route(req Request, loginEnabled bool) operation {
	switch req.Method {
	case http.MethodOptions:
		return opPreflight
	case http.MethodGet:
		if req.id() != "" {
			return opGet
		}
		return opList
	case http.MethodPost:
		if loginEnabled && isLogin(req.Body) {
			return opLogin
		}
		return opCreate
	case http.MethodPut:
		return opUpdate
	case http.MethodDelete:
		return opDelete
	default:
		return opMethodNotAllowed
	}
}

func isLogin(body []byte) bool {
	var probe struct {
		Action string `json:"action"`
	}
	if len(body) == 0 || json.Unmarshal(body, &probe) != nil {
		return false
	}
	return probe.Action == "login"
}
