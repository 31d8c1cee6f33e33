package shopify

// ListProductsQuery returns the newest products first, limited by $first.
const ListProductsQuery = `
query($first: Int!) {
  products(first: $first, sortKey: CREATED_AT, reverse: true) {
    nodes { id title status }
  }
}`

// UpdateVariantPriceMutation sets the price of one product variant.
const UpdateVariantPriceMutation = `
mutation($variantId: ID!, $price: Money!) {
  productVariantUpdate(input: { id: $variantId, price: $price }) {
    productVariant { id price }
    userErrors { field message }
  }
}`
