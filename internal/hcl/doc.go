// Package hcl provides the concrete HCL implementation of the config.Loader
// interface. It is responsible for file discovery, parsing and translating
// blackboard, tree and fsm blocks into the format-agnostic config model.
//
// A definition file looks like this:
//
//	blackboard "npc" {
//	  variable "health" {
//	    type    = number
//	    default = 100
//	  }
//	}
//
//	tree "guard" {
//	  blackboard = "npc"
//	  repeat     = true
//
//	  node "selector" "root" {
//	    node "condition" "hurt" {
//	      condition "expr" { expr = var.health < 30 }
//	    }
//	    node "action" "patrol" {
//	      action "wait" { seconds = 2 }
//	    }
//	  }
//	}
//
// Inside node, action, condition and state bodies every attribute is an
// argument of the kind. `var.x` refers to variable x of the graph's
// blackboard and `shared.s.x` to variable x of the shared store s; any other
// expression is evaluated as a constant, or kept as-is for kinds that
// evaluate expressions themselves.
package hcl
