package schema

// Document is the JSON Schema (draft-07) for a raw ECS configuration.
const Document = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "clusterArn": { "type": "string" },
    "memory": { "type": "string" },
    "cpu": { "type": "integer" },
    "environment": { "$ref": "#/definitions/stringMap" },
    "executionRoleArn": { "type": "string" },
    "taskRoleArn": { "type": "string" },
    "logGroupName": { "type": "string" },
    "iamRoleStatements": { "type": "array", "items": { "type": "object" } },
    "iamManagedPolicies": { "type": "array", "items": { "type": "string" } },
    "tags": { "$ref": "#/definitions/stringMap" },
    "tasks": {
      "type": "object",
      "propertyNames": { "pattern": "^[a-zA-Z0-9-]+$" },
      "additionalProperties": { "$ref": "#/definitions/task" }
    }
  },
  "definitions": {
    "stringMap": {
      "type": "object",
      "additionalProperties": { "type": "string" }
    },
    "stringList": {
      "type": "array",
      "items": { "type": "string" }
    },
    "task": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "name": { "type": "string" },
        "image": { "type": "string" },
        "executionRoleArn": { "type": "string" },
        "taskRoleArn": { "type": "string" },
        "command": { "$ref": "#/definitions/stringList" },
        "entryPoint": { "$ref": "#/definitions/stringList" },
        "memory": { "type": "string" },
        "cpu": { "type": "integer" },
        "environment": { "$ref": "#/definitions/stringMap" },
        "tags": { "$ref": "#/definitions/stringMap" },
        "schedule": { "type": "string" },
        "service": { "$ref": "#/definitions/service" }
      }
    },
    "service": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "desiredCount": { "type": "integer" },
        "maximumPercent": { "type": "integer" },
        "minimumHealthyPercent": { "type": "integer" },
        "strict": { "type": "boolean" }
      }
    }
  }
}`
