package shopify

const listMetaobjectsQuery = `query GetMetaobjects($type: String!, $first: Int!, $cursor: String) {
  metaobjects(type: $type, first: $first, after: $cursor) {
    nodes {
      id
      handle
      type
      fields {
        key
        value
        type
      }
    }
    pageInfo {
      hasNextPage
      endCursor
    }
  }
  metaobjectDefinitionByType(type: $type) {
    fieldDefinitions {
      key
      name
    }
  }
}`

const getMetaobjectQuery = `query GetMetaobject($id: ID!) {
  metaobject(id: $id) {
    id
    handle
    type
    fields {
      key
      value
      type
      definition {
        name
        type
      }
    }
    updatedAt
    createdAt
  }
}`
