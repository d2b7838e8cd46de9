package ogawa

import (
	"fmt"
	"strings"
)

// ParsePropertyPath splits a property path into the object path and the
// property path below that object's top-level compound.
// Path format: /object/child@compound/property
//
// Examples:
//   - "/@.childBnds" -> objectPath="/", propertyPath=".childBnds"
//   - "/pCube1@.xform/.vals" -> objectPath="/pCube1", propertyPath=".xform/.vals"
func ParsePropertyPath(path string) (objectPath, propertyPath string, err error) {
	if path == "" {
		return "", "", fmt.Errorf("%w: empty property path", ErrInvalidPath)
	}

	at := strings.Index(path, "@")
	if at == -1 {
		return "", "", fmt.Errorf("%w: property path must contain '@' separator: %s", ErrInvalidPath, path)
	}

	objectPath = CleanPath(path[:at])
	propertyPath = strings.Trim(path[at+1:], "/")
	if propertyPath == "" {
		return "", "", fmt.Errorf("%w: property name cannot be empty: %s", ErrInvalidPath, path)
	}
	return objectPath, propertyPath, nil
}

// JoinPropertyPath creates a property path from an object path and a
// property path.
func JoinPropertyPath(objectPath, propertyPath string) string {
	return CleanPath(objectPath) + "@" + propertyPath
}

// SplitPath splits an object path into its components.
//
// Examples:
//   - "/" -> []string{}
//   - "/a/b" -> []string{"a", "b"}
func SplitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return []string{}
	}
	return strings.Split(path, "/")
}

// CleanPath normalizes an object path to start with "/" and have no trailing
// slash.
func CleanPath(path string) string {
	if path == "" || path == "/" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return strings.TrimSuffix(path, "/")
}

// Object loads the object at an absolute path such as "/pCube1/pCubeShape1".
func (a *Archive) Object(path string) (*ObjectReader, error) {
	current := a.root
	for _, name := range SplitPath(path) {
		next, err := current.LoadChildByName(name)
		if err != nil {
			return nil, err
		}
		current = next
	}
	return current, nil
}

// Property loads the property at a path such as "/pCube1@.xform/.vals".
func (a *Archive) Property(path string) (PropertyReader, error) {
	objectPath, propertyPath, err := ParsePropertyPath(path)
	if err != nil {
		return nil, err
	}
	obj, err := a.Object(objectPath)
	if err != nil {
		return nil, err
	}
	props, err := obj.Properties()
	if err != nil {
		return nil, err
	}
	if props == nil {
		return nil, fmt.Errorf("%w: object %q has no properties", ErrNotFound, obj.FullName())
	}
	return props.LoadPath(propertyPath)
}
