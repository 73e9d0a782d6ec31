// Package mapping reads copy profiles from YAML.
//
// A profile pins how one source type is copied into one target type:
//
//	version: "1"
//	mappings:
//	  - source: convert.EmployeeDO
//	    target: convert.EmployeeVO
//	    121:
//	      FiledDOS: FiledVOS
//	    fields:
//	      - target: Status
//	        default: "active"
//	    ignore: [Salary]
//	    categories: [text_number, datetime]
//	    loose: true
//
// Type references are either fully qualified ("common-tools/convert.EmployeeDO")
// or package alias qualified ("convert.EmployeeDO").
package mapping
